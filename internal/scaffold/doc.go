// Package scaffold owns the embedded template set of the generated Rails
// skeleton and renders individual templates with text/template. Files
// ending in .tmpl are executed; anything else is copied verbatim.
package scaffold
