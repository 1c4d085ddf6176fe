// Package pkg holds the libraries behind nmanet, which draws the treatment
// network of a network meta-analysis from an arm-level trial table.
//
// # Data Flow
//
//	trials.csv
//	     ↓
//	[trial]    reshape wide rows into arms, aggregate per study and treatment
//	     ↓
//	[network]  pair treatments within studies, summarize edges and nodes
//	     ↓
//	[render/nodelink]  emit DOT, lay out with circo, convert to SVG/PDF/PNG
//
// [regimen] classifies treatment labels into drug classes and orders them for
// display. [config] supplies the schema variants, orderings and palette.
// [models] reads model fit statistics and ranks them by DIC. [pipeline] ties
// the stages together and caches rendered artifacts through [cache].
//
// [trial]: github.com/matzehuels/nmanet/pkg/trial
// [network]: github.com/matzehuels/nmanet/pkg/network
// [render/nodelink]: github.com/matzehuels/nmanet/pkg/render/nodelink
// [regimen]: github.com/matzehuels/nmanet/pkg/regimen
// [config]: github.com/matzehuels/nmanet/pkg/config
// [models]: github.com/matzehuels/nmanet/pkg/models
// [pipeline]: github.com/matzehuels/nmanet/pkg/pipeline
// [cache]: github.com/matzehuels/nmanet/pkg/cache
package pkg
