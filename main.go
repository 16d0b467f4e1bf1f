package main

import (
	"oss.terrastruct.com/d2canvas/d2cli"
	"oss.terrastruct.com/d2canvas/lib/xmain"
)

func main() {
	xmain.Main(d2cli.Run)
}
