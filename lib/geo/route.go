package geo

// Route is an ordered list of vertices a link passes through between its endpoints.
type Route []*Point

func (route Route) First() *Point {
	if len(route) == 0 {
		return nil
	}
	return route[0]
}

func (route Route) Last() *Point {
	if len(route) == 0 {
		return nil
	}
	return route[len(route)-1]
}

func (route Route) Copy() Route {
	if route == nil {
		return nil
	}
	out := make(Route, 0, len(route))
	for _, p := range route {
		out = append(out, p.Copy())
	}
	return out
}
