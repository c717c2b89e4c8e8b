package task

// Kind discriminates the two record collections.
type Kind string

const (
	KindIncidencia Kind = "incidencia"
	KindAsignacion Kind = "asignacion"
)

// Status represents the resolution state of a task.
type Status string

const (
	StatusEnProgreso Status = "en-progreso"
	StatusResuelta   Status = "resuelta"
)

// Category classifies the root cause of a task.
type Category string

const (
	CategoryFallaOperador  Category = "Falla Operador"
	CategoryFallaOperacion Category = "Falla Operacion Forza"
	CategorySuciedad       Category = "Suciedad"
	CategoryBolsaConFallas Category = "Bolsa con fallas"
	CategoryOtros          Category = "Otros"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{
		CategoryFallaOperador,
		CategoryFallaOperacion,
		CategorySuciedad,
		CategoryBolsaConFallas,
		CategoryOtros,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFallaOperador, CategoryFallaOperacion, CategorySuciedad,
		CategoryBolsaConFallas, CategoryOtros:
		return true
	}
	return false
}

// Task is a tracked record. The Kind field discriminates incidents
// from assignments; it is not serialized because each collection is
// persisted under its own storage key. JSON field names match the
// persisted layout consumed by backup files and imports.
type Task struct {
	Kind Kind `json:"-"`

	ID          string `json:"id"`
	Consecutivo int    `json:"consecutivo"`
	Nombre      string `json:"nombre"`
	// Fecha is YYYY-MM-DD, Hora is HH:MM. Lexicographic comparison of
	// Fecha+"T"+Hora is chronological order; renumbering depends on
	// this equivalence.
	Fecha               string   `json:"fecha"`
	Hora                string   `json:"hora"`
	Clientes            []string `json:"clientes"`
	PersonalInvolucrado string   `json:"personalInvolucrado"`
	DeviceID            string   `json:"deviceId"`
	Estado              Status   `json:"estado"`
	FechaResuelta       string   `json:"fechaResuelta,omitempty"`
	HoraResuelta        string   `json:"horaResuelta,omitempty"`
	Category            Category `json:"category,omitempty"`
	OtherCategory       string   `json:"otherCategory,omitempty"`
	IsArchived          bool     `json:"isArchived"`

	// Incident-only fields.
	Incidencia string `json:"incidencia,omitempty"`
	Solucion   string `json:"solucion,omitempty"`

	// Assignment-only field.
	Requerimiento string `json:"requerimiento,omitempty"`
}

// Resolved reports whether the task carries resolution timestamps.
func (t *Task) Resolved() bool {
	return t.Estado == StatusResuelta
}

// CategoryLabel returns the display label used for grouping: the
// free-text value when the category is Otros, otherwise the category
// itself.
func (t *Task) CategoryLabel() string {
	if t.Category == CategoryOtros && t.OtherCategory != "" {
		return t.OtherCategory
	}
	return string(t.Category)
}

// Detail returns the kind-specific description text.
func (t *Task) Detail() string {
	if t.Kind == KindIncidencia {
		return t.Incidencia
	}
	return t.Requerimiento
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() Task {
	out := *t
	if t.Clientes != nil {
		out.Clientes = append([]string(nil), t.Clientes...)
	}
	return out
}

// CloneAll deep-copies a collection.
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}
