// Package source turns user input into card images with physical sizes.
//
// Cards come from a TOML manifest ([ReadManifest]) or a plain list of image
// paths ([FromPaths]). Sizes given in the manifest are used as is, in
// millimetres. Missing sizes are read from the image header and converted
// from pixels at the configured DPI; no other unit conversion happens
// anywhere in cardsheet.
//
// A manifest looks like this:
//
//	[settings]
//	page_size = "A4"
//	margin = 10
//	spacing = 5
//	dpi = 300
//	back = "back.png"
//	guides = true
//
//	[[card]]
//	src = "cards/ace.png"
//	width = 63
//	height = 88
//	count = 4
//
//	[[card]]
//	src = "cards/rules.png"
package source
