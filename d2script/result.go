package d2script

import (
	"oss.terrastruct.com/xjson"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

// Result is the state of a diagram after a session.
type Result struct {
	Zoom float64   `json:"zoom"`
	Pan  geo.Point `json:"pan"`

	Nodes  []NodeResult `json:"nodes"`
	Groups []NodeResult `json:"groups"`
	Links  []LinkResult `json:"links"`

	// Selected lists the selected entities in the order of d2diagram.Diagram.SelectedModels.
	Selected []string `json:"selected"`
	// Order lists every selectable entity from back to front.
	Order []string `json:"order"`
}

type NodeResult struct {
	ID       string          `json:"id"`
	Position geo.Point       `json:"position"`
	Size     *geo.Dimensions `json:"size,omitempty"`
	Order    int             `json:"order"`
	Selected bool            `json:"selected,omitempty"`
	Locked   bool            `json:"locked,omitempty"`
	Parent   string          `json:"parent,omitempty"`
	Group    string          `json:"group,omitempty"`
	Members  []string        `json:"members,omitempty"`
	Ports    []PortResult    `json:"ports,omitempty"`
}

type PortResult struct {
	ID          string         `json:"id"`
	Alignment   string         `json:"alignment"`
	Position    geo.Point      `json:"position"`
	Size        geo.Dimensions `json:"size"`
	Enabled     bool           `json:"enabled"`
	Initialized bool           `json:"initialized"`
}

type LinkResult struct {
	ID string `json:"id"`
	// Source and Target are the IDs of the models the ends are bound to. Empty means
	// a free position.
	Source   string    `json:"source,omitempty"`
	Target   string    `json:"target,omitempty"`
	Attached bool      `json:"attached"`
	Order    int       `json:"order"`
	Selected bool      `json:"selected,omitempty"`
	Vertices geo.Route `json:"vertices,omitempty"`
	// From and To are the resolved endpoints, nil while unresolved.
	From *geo.Point `json:"from"`
	To   *geo.Point `json:"to"`
}

func NewResult(d *d2diagram.Diagram) *Result {
	r := &Result{
		Zoom:     d.Zoom(),
		Pan:      *d.Pan(),
		Nodes:    []NodeResult{},
		Groups:   []NodeResult{},
		Links:    []LinkResult{},
		Selected: []string{},
		Order:    []string{},
	}
	for _, n := range d.Nodes.All() {
		r.Nodes = append(r.Nodes, nodeResult(n))
	}
	for _, g := range d.Groups.All() {
		r.Groups = append(r.Groups, nodeResult(g))
	}
	for _, lk := range d.Links.All() {
		r.Links = append(r.Links, linkResult(lk))
	}
	for _, s := range d.SelectedModels() {
		r.Selected = append(r.Selected, s.ID())
	}
	for _, s := range d.OrderedSelectables() {
		r.Order = append(r.Order, s.ID())
	}
	return r
}

// Node returns the result for the node or group id.
func (r *Result) Node(id string) (NodeResult, bool) {
	for _, nodes := range [][]NodeResult{r.Nodes, r.Groups} {
		for _, n := range nodes {
			if n.ID == id {
				return n, true
			}
		}
	}
	return NodeResult{}, false
}

func (r *Result) Link(id string) (LinkResult, bool) {
	for _, lk := range r.Links {
		if lk.ID == id {
			return lk, true
		}
	}
	return LinkResult{}, false
}

// JSON returns r as indented JSON.
func (r *Result) JSON() []byte {
	return []byte(xjson.MarshalIndent(r))
}

func nodeResult(n *d2diagram.Node) NodeResult {
	nr := NodeResult{
		ID:       n.ID(),
		Position: *n.Position(),
		Order:    n.Order(),
		Selected: n.Selected(),
		Locked:   n.Locked(),
		Size:     n.Size(),
	}
	if p := n.Parent(); p != nil {
		nr.Parent = p.ID()
	}
	if g := n.ParentGroup(); g != nil {
		nr.Group = g.ID()
	}
	if n.IsGroup() {
		for _, m := range n.Group.Members() {
			nr.Members = append(nr.Members, m.ID())
		}
	}
	for _, p := range n.Ports() {
		nr.Ports = append(nr.Ports, PortResult{
			ID:          p.ID(),
			Alignment:   p.Alignment.String(),
			Position:    *p.Position(),
			Size:        *p.Size(),
			Enabled:     p.Enabled,
			Initialized: p.Initialized(),
		})
	}
	return nr
}

func linkResult(lk *d2diagram.Link) LinkResult {
	lr := LinkResult{
		ID:       lk.ID(),
		Attached: lk.IsAttached(),
		Order:    lk.Order(),
		Selected: lk.Selected(),
		Vertices: lk.Vertices,
	}
	if m := lk.Source().Model(); m != nil {
		lr.Source = m.ID()
	}
	if m := lk.Target().Model(); m != nil {
		lr.Target = m.ID()
	}
	lr.From, lr.To = lk.Endpoints()
	return lr
}
