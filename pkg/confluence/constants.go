// Package confluence is a client-side object model for the Confluence REST
// content API. Pages and spaces are modelled as resources that hold a typed
// snapshot of their server-side state, declare the expansions they need and
// reconcile local edits with the server on Get, Save and Delete.
package confluence

import "time"

// HTTP status codes the transport and resources branch on.
const (
	StatusOK                 = 200
	StatusCreated            = 201
	StatusAccepted           = 202
	StatusNoContent          = 204
	StatusBadRequest         = 400
	StatusUnauthorized       = 401
	StatusForbidden          = 403
	StatusNotFound           = 404
	StatusMethodNotAllowed   = 405
	StatusConflict           = 409
	StatusTooManyRequests    = 429
	StatusRetryWith          = 449
	StatusInternalError      = 500
	StatusServiceUnavailable = 503
	StatusGatewayTimeout     = 504
)

// Transport defaults.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "confluence-client"
	cloudHostMarker  = "atlassian.net"
)

// Envelope messages.
const (
	msgUnknownError  = "Unknown Error"
	msgNoServerData  = "Error retrieving data from the server"
	msgDataNotLoaded = "Data not set. Try calling Get() first."
)

// Endpoint operation names used as keys of a resource's endpoint table.
const (
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpLabels = "labels"
	OpScan   = "scan"
)

// primaryPlaceholder is substituted with the resource identifier.
const primaryPlaceholder = "{primary}"

// Content and space defaults.
const (
	ContentTypePage       = "page"
	StatusCurrent         = "current"
	RepresentationStorage = "storage"
	RepresentationPlain   = "plain"
	LabelPrefixGlobal     = "global"
	DefaultScanLimit      = 25
)

// Body representation modes accepted by Page.BodyRepresentation.
const (
	BodyStorage             = "storage"
	BodyView                = "view"
	BodyExportView          = "export_view"
	BodyAnonymousExportView = "anonymous_export_view"
)

func pageEndpointTemplates() map[string]string {
	return map[string]string{
		OpGet:    "/rest/api/content/{primary}",
		OpCreate: "/rest/api/content",
		OpUpdate: "/rest/api/content/{primary}",
		OpDelete: "/rest/api/content/{primary}",
		OpLabels: "/rest/api/content/{primary}/label/",
	}
}

func spaceEndpointTemplates() map[string]string {
	return map[string]string{
		OpGet:    "/rest/api/space/{primary}",
		OpCreate: "/rest/api/space",
		OpUpdate: "/rest/api/space/{primary}",
		OpDelete: "/rest/api/space/{primary}",
		OpScan:   "/rest/api/content/scan",
	}
}

func defaultPageExpands() []string {
	return []string{"body.storage", "space", "version", "ancestors", "metadata.labels"}
}

func defaultSpaceExpands() []string {
	return []string{"description.plain", "homepage"}
}
