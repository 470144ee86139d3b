// Package assets provides the browser scripts and preview styles bundled
// with c2md.
//
// Scripts are function expressions evaluated by go-rod against the logbook
// page (arguments are passed positionally by the caller):
//
//	scripts/
//	├── inject.js       # adds the image link and copy button to .actions
//	├── state.js        # applies a copy button state (label, disabled)
//	└── fallback.js     # textarea + execCommand('copy') fallback
//	styles/
//	└── preview.css     # stylesheet for the HTML preview
//
// Asset names are validated to prevent path traversal.
package assets
