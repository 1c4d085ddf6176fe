// Package nodelink renders treatment networks as node-link diagrams.
//
// # Overview
//
// Treatments are drawn as circles placed around a circle (Graphviz circo
// engine) in display order. Circle diameter is proportional to the total
// number of participants randomized to the treatment; fill color follows the
// drug class. Edge width is proportional to the number of studies making the
// comparison (k), and each edge is labelled with k and the combined sample
// size.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.DefaultOptions())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
