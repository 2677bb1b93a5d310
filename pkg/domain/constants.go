package domain

// Attribute and header names that make up the wire protocol.
const (
	// AttrFrame marks a reconciliation region: data-frame="name" or data-frame="name:value".
	AttrFrame = "data-frame"

	// AttrOnClick holds the action run when the element (or a descendant) is clicked.
	AttrOnClick = "data-on-click"

	// AttrOnInput holds the action run when the element receives input.
	AttrOnInput = "data-on-input"

	// AttrOnSubmit holds the action run instead of the default submission of a form.
	AttrOnSubmit = "data-on-submit"

	// AttrOnLoad holds the action run once after the element is inserted into the live document.
	AttrOnLoad = "data-on-load"

	// HeaderRequest flags a request as a soft navigation.
	HeaderRequest = "Way-Request"

	// StateMarker is the history state key set on entries created by the runtime.
	StateMarker = "way"
)
