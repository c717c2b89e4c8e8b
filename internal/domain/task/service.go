package task

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const autoArchiveAfter = 30 * 24 * time.Hour

// Service owns the two task collections and every mutation over them.
// Collections are loaded once at startup and re-serialized wholesale
// through the Repository after each mutation; no caller ever mutates a
// task directly.
type Service struct {
	repo    Repository
	actions ActionLogger
	backups Archiver
	logger  *slog.Logger
	now     func() time.Time

	mu           sync.Mutex
	incidencias  []Task
	asignaciones []Task
}

// NewService creates a task service. actions and backups may be nil.
func NewService(repo Repository, actions ActionLogger, backups Archiver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		actions: actions,
		backups: backups,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetArchiver installs the automatic snapshot sink. The snapshot
// engine reads collections back through this service, so it is wired
// after construction.
func (s *Service) SetArchiver(backups Archiver) { s.backups = backups }

// LoadReport summarizes the startup migration.
type LoadReport struct {
	Incidencias  int
	Asignaciones int
	AutoArchived int
}

// Load reads both collections from storage, auto-archives incidents
// older than 30 days, renumbers both collections and persists the
// result. Corrupt storage surfaces as empty collections (the repository
// drops the offending key), so startup never fails on bad data.
func (s *Service) Load(ctx context.Context) (LoadReport, error) {
	incidencias, err := s.repo.Load(ctx, KindIncidencia)
	if err != nil {
		return LoadReport{}, fmt.Errorf("loading incidencias: %w", err)
	}
	asignaciones, err := s.repo.Load(ctx, KindAsignacion)
	if err != nil {
		return LoadReport{}, fmt.Errorf("loading asignaciones: %w", err)
	}

	cutoff := s.now().Add(-autoArchiveAfter)
	archived := 0
	for i := range incidencias {
		if incidencias[i].IsArchived || incidencias[i].Fecha == "" {
			continue
		}
		day, err := time.Parse("2006-01-02", incidencias[i].Fecha)
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			incidencias[i].IsArchived = true
			archived++
		}
	}
	if archived > 0 {
		s.logAction(ctx, fmt.Sprintf("%d incidencia(s) antigua(s) archivada(s) automáticamente.", archived))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidencias = stampKind(Renumber(incidencias), KindIncidencia)
	s.asignaciones = stampKind(Renumber(asignaciones), KindAsignacion)
	if err := s.persistLocked(ctx, KindIncidencia); err != nil {
		return LoadReport{}, err
	}
	if err := s.persistLocked(ctx, KindAsignacion); err != nil {
		return LoadReport{}, err
	}
	return LoadReport{
		Incidencias:  len(s.incidencias),
		Asignaciones: len(s.asignaciones),
		AutoArchived: archived,
	}, nil
}

// Snapshot returns deep copies of both collections.
func (s *Service) Snapshot() (incidencias, asignaciones []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CloneAll(s.incidencias), CloneAll(s.asignaciones)
}

// ReplaceAll swaps in fully new collections (bulk import path). The
// caller is expected to have renumbered them already.
func (s *Service) ReplaceAll(ctx context.Context, incidencias, asignaciones []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidencias = stampKind(CloneAll(incidencias), KindIncidencia)
	s.asignaciones = stampKind(CloneAll(asignaciones), KindAsignacion)
	if err := s.persistLocked(ctx, KindIncidencia); err != nil {
		return err
	}
	return s.persistLocked(ctx, KindAsignacion)
}

// List returns a filtered, sorted copy of one collection.
func (s *Service) List(ctx context.Context, kind Kind, opts ListOptions) ([]Task, error) {
	col, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(*col))
	for i := range *col {
		t := &(*col)[i]
		if opts.View == ViewArchivadas {
			if !t.IsArchived {
				continue
			}
		} else if t.IsArchived {
			continue
		}
		switch opts.Status {
		case FilterEnProgreso:
			if t.Estado != StatusEnProgreso {
				continue
			}
		case FilterResuelta:
			if t.Estado != StatusResuelta {
				continue
			}
		}
		out = append(out, t.Clone())
	}
	if opts.Sort == SortAntiguo {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Consecutivo < out[j].Consecutivo })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Consecutivo > out[j].Consecutivo })
	}
	return out, nil
}

// Get returns a copy of the task with the given id from either collection.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := findByID(s.incidencias, id); t != nil {
		c := t.Clone()
		return &c, nil
	}
	if t := findByID(s.asignaciones, id); t != nil {
		c := t.Clone()
		return &c, nil
	}
	return nil, ErrTaskNotFound
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	Kind                Kind
	Nombre              string
	Fecha               string
	Hora                string
	Clientes            []string
	PersonalInvolucrado string
	DeviceID            string
	Category            Category
	OtherCategory       string
	Incidencia          string
	Solucion            string
	Requerimiento       string
}

// Create appends a new task to its collection with the next consecutivo
// (max+1; existing numbers are never disturbed on create).
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if req.Nombre == "" || req.Fecha == "" || req.Hora == "" {
		return nil, ErrInvalidInput
	}
	if req.Category != "" && !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	col, err := s.collection(req.Kind)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	t := Task{
		Kind:                req.Kind,
		ID:                  uuid.NewString(),
		Consecutivo:         NextConsecutivo(*col),
		Nombre:              req.Nombre,
		Fecha:               req.Fecha,
		Hora:                req.Hora,
		Clientes:            dedupe(req.Clientes),
		PersonalInvolucrado: req.PersonalInvolucrado,
		DeviceID:            req.DeviceID,
		Estado:              StatusEnProgreso,
		Category:            req.Category,
	}
	if req.Category == CategoryOtros {
		t.OtherCategory = req.OtherCategory
	}
	if req.Kind == KindIncidencia {
		t.Incidencia = req.Incidencia
		t.Solucion = req.Solucion
	} else {
		t.Requerimiento = req.Requerimiento
	}
	*col = append(*col, t)
	if err := s.persistLocked(ctx, req.Kind); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	s.logAction(ctx, fmt.Sprintf("Registro '%s' (#%d) creado en %s.", t.Nombre, t.Consecutivo, collectionName(req.Kind)))
	s.autoSnapshot(ctx)
	return &out, nil
}

// UpdateRequest describes a general field patch. Nil pointers leave the
// field untouched. Resolution timestamps, estado, consecutivo and the
// archived flag are never patched here.
type UpdateRequest struct {
	ID                  string
	Nombre              *string
	Fecha               *string
	Hora                *string
	Clientes            []string
	PersonalInvolucrado *string
	DeviceID            *string
	Category            *Category
	OtherCategory       *string
	Incidencia          *string
	Solucion            *string
	Requerimiento       *string
}

// Update applies an edit patch. The pre-edit resolution timestamps are
// explicitly preserved: the edit form never supplies them, and an
// unrelated edit must not erase them.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Task, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}
	if req.Category != nil && *req.Category != "" && !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	s.mu.Lock()
	t, kind := s.findLocked(req.ID)
	if t == nil {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}
	if req.Nombre != nil {
		t.Nombre = *req.Nombre
	}
	if req.Fecha != nil {
		t.Fecha = *req.Fecha
	}
	if req.Hora != nil {
		t.Hora = *req.Hora
	}
	if req.Clientes != nil {
		t.Clientes = dedupe(req.Clientes)
	}
	if req.PersonalInvolucrado != nil {
		t.PersonalInvolucrado = *req.PersonalInvolucrado
	}
	if req.DeviceID != nil {
		t.DeviceID = *req.DeviceID
	}
	if req.Category != nil {
		t.Category = *req.Category
		t.OtherCategory = ""
	}
	if req.OtherCategory != nil && t.Category == CategoryOtros {
		t.OtherCategory = *req.OtherCategory
	}
	if kind == KindIncidencia {
		if req.Incidencia != nil {
			t.Incidencia = *req.Incidencia
		}
		if req.Solucion != nil {
			t.Solucion = *req.Solucion
		}
	} else if req.Requerimiento != nil {
		t.Requerimiento = *req.Requerimiento
	}
	if err := s.persistLocked(ctx, kind); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	s.logAction(ctx, fmt.Sprintf("Registro '%s' (#%d) actualizado en %s.", out.Nombre, out.Consecutivo, collectionName(kind)))
	s.autoSnapshot(ctx)
	return &out, nil
}

// ChangeStatus toggles estado. Completing stamps the resolution
// timestamps with the current wall clock; reopening clears them
// entirely.
func (s *Service) ChangeStatus(ctx context.Context, id string) (*Task, error) {
	s.mu.Lock()
	t, kind := s.findLocked(id)
	if t == nil {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}
	if t.Estado == StatusEnProgreso {
		now := s.now()
		t.Estado = StatusResuelta
		t.FechaResuelta = now.Format("2006-01-02")
		t.HoraResuelta = now.Format("15:04")
	} else {
		t.Estado = StatusEnProgreso
		t.FechaResuelta = ""
		t.HoraResuelta = ""
	}
	if err := s.persistLocked(ctx, kind); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	s.logAction(ctx, fmt.Sprintf("Estado del registro '%s' (#%d) cambiado a '%s'.", out.Nombre, out.Consecutivo, out.Estado))
	return &out, nil
}

// EditResolutionTime overwrites the resolution timestamps with
// caller-supplied values without touching estado.
func (s *Service) EditResolutionTime(ctx context.Context, id, fecha, hora string) (*Task, error) {
	if fecha == "" || hora == "" {
		return nil, ErrInvalidInput
	}
	s.mu.Lock()
	t, kind := s.findLocked(id)
	if t == nil {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}
	t.FechaResuelta = fecha
	t.HoraResuelta = hora
	if err := s.persistLocked(ctx, kind); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	s.logAction(ctx, fmt.Sprintf("Fecha de resolución del registro '#%d - %s' actualizada.", out.Consecutivo, out.Nombre))
	return &out, nil
}

// Categorize sets the category; otherCategory is kept only for Otros.
func (s *Service) Categorize(ctx context.Context, id string, category Category, otherCategory string) (*Task, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	s.mu.Lock()
	t, kind := s.findLocked(id)
	if t == nil {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}
	t.Category = category
	t.OtherCategory = ""
	if category == CategoryOtros {
		t.OtherCategory = otherCategory
	}
	if err := s.persistLocked(ctx, kind); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	s.logAction(ctx, fmt.Sprintf("Registro '#%d - %s' categorizado como '%s'.", out.Consecutivo, out.Nombre, out.CategoryLabel()))
	return &out, nil
}

// Archive soft-hides a task without touching its estado. Archiving an
// already archived task is a no-op with the same outcome.
func (s *Service) Archive(ctx context.Context, id string) (*Task, error) {
	return s.setArchived(ctx, id, true)
}

// Unarchive restores a task to the active view.
func (s *Service) Unarchive(ctx context.Context, id string) (*Task, error) {
	return s.setArchived(ctx, id, false)
}

func (s *Service) setArchived(ctx context.Context, id string, archived bool) (*Task, error) {
	s.mu.Lock()
	t, kind := s.findLocked(id)
	if t == nil {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}
	t.IsArchived = archived
	if err := s.persistLocked(ctx, kind); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	verb := "archivada"
	if !archived {
		verb = "restaurada"
	}
	s.logAction(ctx, fmt.Sprintf("%s '#%d - %s' %s.", kindLabel(kind), out.Consecutivo, out.Nombre, verb))
	s.autoSnapshot(ctx)
	return &out, nil
}

// ArchiveMany archives every matching id in either collection and
// returns the number of tasks touched. Missing ids are skipped.
func (s *Service) ArchiveMany(ctx context.Context, ids []string) (int, error) {
	return s.setArchivedMany(ctx, ids, true)
}

// RestoreMany unarchives every matching id in either collection.
func (s *Service) RestoreMany(ctx context.Context, ids []string) (int, error) {
	return s.setArchivedMany(ctx, ids, false)
}

func (s *Service) setArchivedMany(ctx context.Context, ids []string, archived bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := idSet(ids)

	s.mu.Lock()
	count := 0
	for _, kind := range []Kind{KindIncidencia, KindAsignacion} {
		col, _ := s.collection(kind)
		touched := false
		for i := range *col {
			if want[(*col)[i].ID] && (*col)[i].IsArchived != archived {
				(*col)[i].IsArchived = archived
				count++
				touched = true
			}
		}
		if touched {
			if err := s.persistLocked(ctx, kind); err != nil {
				s.mu.Unlock()
				return count, err
			}
		}
	}
	s.mu.Unlock()

	if count > 0 {
		verb := "archivado(s)"
		if !archived {
			verb = "restaurado(s)"
		}
		s.logAction(ctx, fmt.Sprintf("%d registro(s) %s. IDs: %s.", count, verb, joinIDs(ids)))
		s.autoSnapshot(ctx)
	}
	return count, nil
}

// Delete removes every matching id from whichever collection it lives
// in. No tombstones are kept and consecutivo numbers are not
// compacted; gaps persist until the next import-triggered renumber.
func (s *Service) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := idSet(ids)

	s.mu.Lock()
	count := 0
	for _, kind := range []Kind{KindIncidencia, KindAsignacion} {
		col, _ := s.collection(kind)
		kept := (*col)[:0]
		removed := 0
		for i := range *col {
			if want[(*col)[i].ID] {
				removed++
				continue
			}
			kept = append(kept, (*col)[i])
		}
		if removed > 0 {
			*col = kept
			count += removed
			if err := s.persistLocked(ctx, kind); err != nil {
				s.mu.Unlock()
				return count, err
			}
		}
	}
	s.mu.Unlock()

	if count > 0 {
		s.logAction(ctx, fmt.Sprintf("%d registro(s) eliminado(s). IDs: %s.", count, joinIDs(ids)))
		s.autoSnapshot(ctx)
	}
	return count, nil
}

// Transfer copies an assignment into the incident collection as a new
// in-progress incident: new id, next incident consecutivo, title
// prefixed with "[Transferido] ", creation stamped now, requerimiento
// carried over as the incident description. The source assignment is
// left untouched.
func (s *Service) Transfer(ctx context.Context, id string) (*Task, error) {
	s.mu.Lock()
	src := findByID(s.asignaciones, id)
	if src == nil {
		s.mu.Unlock()
		if findByID(s.incidencias, id) != nil {
			return nil, ErrNotAssignment
		}
		return nil, ErrTaskNotFound
	}
	now := s.now()
	t := Task{
		Kind:                KindIncidencia,
		ID:                  uuid.NewString(),
		Consecutivo:         NextConsecutivo(s.incidencias),
		Nombre:              "[Transferido] " + src.Nombre,
		Fecha:               now.Format("2006-01-02"),
		Hora:                now.Format("15:04"),
		Clientes:            append([]string(nil), src.Clientes...),
		PersonalInvolucrado: src.PersonalInvolucrado,
		DeviceID:            src.DeviceID,
		Estado:              StatusEnProgreso,
		Category:            src.Category,
		OtherCategory:       src.OtherCategory,
		Incidencia:          src.Requerimiento,
		Solucion:            "",
	}
	srcConsecutivo, srcNombre := src.Consecutivo, src.Nombre
	s.incidencias = append(s.incidencias, t)
	if err := s.persistLocked(ctx, KindIncidencia); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := t.Clone()
	s.mu.Unlock()

	s.logAction(ctx, fmt.Sprintf("Asignación '#%d - %s' transferida a Incidencias.", srcConsecutivo, srcNombre))
	s.autoSnapshot(ctx)
	return &out, nil
}

// Draft is a detached copy produced by Duplicate. It carries no id,
// consecutivo, estado or archived flag; it only becomes a record when
// saved through the normal create path.
type Draft struct {
	Kind                Kind     `json:"kind"`
	Nombre              string   `json:"nombre"`
	Fecha               string   `json:"fecha"`
	Hora                string   `json:"hora"`
	Clientes            []string `json:"clientes"`
	PersonalInvolucrado string   `json:"personalInvolucrado"`
	DeviceID            string   `json:"deviceId"`
	Category            Category `json:"category,omitempty"`
	OtherCategory       string   `json:"otherCategory,omitempty"`
	Incidencia          string   `json:"incidencia,omitempty"`
	Solucion            string   `json:"solucion,omitempty"`
	Requerimiento       string   `json:"requerimiento,omitempty"`
}

// Duplicate returns a draft copy of the task with title suffixed
// " (Copia)" and creation stamped now. Nothing is persisted.
func (s *Service) Duplicate(ctx context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	t, kind := s.findLocked(id)
	if t == nil {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}
	src := t.Clone()
	s.mu.Unlock()

	now := s.now()
	draft := &Draft{
		Kind:                kind,
		Nombre:              src.Nombre + " (Copia)",
		Fecha:               now.Format("2006-01-02"),
		Hora:                now.Format("15:04"),
		Clientes:            src.Clientes,
		PersonalInvolucrado: src.PersonalInvolucrado,
		DeviceID:            src.DeviceID,
		Category:            src.Category,
		OtherCategory:       src.OtherCategory,
		Incidencia:          src.Incidencia,
		Solucion:            src.Solucion,
		Requerimiento:       src.Requerimiento,
	}
	s.logAction(ctx, fmt.Sprintf("Registro '#%d - %s' duplicado.", src.Consecutivo, src.Nombre))
	return draft, nil
}

func (s *Service) collection(kind Kind) (*[]Task, error) {
	switch kind {
	case KindIncidencia:
		return &s.incidencias, nil
	case KindAsignacion:
		return &s.asignaciones, nil
	}
	return nil, ErrInvalidKind
}

func (s *Service) findLocked(id string) (*Task, Kind) {
	if t := findByID(s.incidencias, id); t != nil {
		return t, KindIncidencia
	}
	if t := findByID(s.asignaciones, id); t != nil {
		return t, KindAsignacion
	}
	return nil, ""
}

func (s *Service) persistLocked(ctx context.Context, kind Kind) error {
	col, err := s.collection(kind)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, kind, *col); err != nil {
		return fmt.Errorf("saving %s: %w", collectionName(kind), err)
	}
	return nil
}

func (s *Service) logAction(ctx context.Context, action string) {
	if s.actions != nil {
		s.actions.LogAction(ctx, action)
	}
}

func (s *Service) autoSnapshot(ctx context.Context) {
	if s.backups == nil {
		return
	}
	incidencias, asignaciones := s.Snapshot()
	if err := s.backups.AutoSnapshot(ctx, incidencias, asignaciones); err != nil {
		s.logger.Warn("automatic snapshot failed", "error", err)
	}
}

func findByID(tasks []Task, id string) *Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func stampKind(tasks []Task, kind Kind) []Task {
	for i := range tasks {
		tasks[i].Kind = kind
	}
	return tasks
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ", ")
}

func collectionName(kind Kind) string {
	if kind == KindAsignacion {
		return "asignaciones"
	}
	return "incidencias"
}

func kindLabel(kind Kind) string {
	if kind == KindAsignacion {
		return "Asignación"
	}
	return "Incidencia"
}
