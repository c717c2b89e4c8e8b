package task

// View selects the archived axis when listing.
type View string

const (
	ViewActivas    View = "activas"
	ViewArchivadas View = "archivadas"
)

// SortOrder orders listings by consecutivo.
type SortOrder string

const (
	SortReciente SortOrder = "reciente"
	SortAntiguo  SortOrder = "antiguo"
)

// StatusFilter narrows listings by resolution state.
type StatusFilter string

const (
	FilterTodos      StatusFilter = "todos"
	FilterEnProgreso StatusFilter = "en-progreso"
	FilterResuelta   StatusFilter = "resuelta"
)

// ListOptions provides filtering options for listing one collection.
type ListOptions struct {
	View   View
	Status StatusFilter
	Sort   SortOrder
}
