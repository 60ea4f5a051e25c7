// Package render produces the delivery PDFs.
//
// RenderCard lays one spreadsheet row out on a B5 page using fixed field
// positions measured off the physical card sleeves; each card kind carries
// its own layout. RenderTable reproduces a whole sheet as a bordered grid
// on A4 pages. Arabic and Kurdish text is shaped through the arabictext
// subpackage when a font with Arabic coverage is configured; missing fonts
// degrade output rather than failing the batch.
package render
