package gradebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradefile"
	"github.com/mind-engage/mindengage-grades/internal/ledger"
	"github.com/mind-engage/mindengage-grades/internal/metrics"
	"github.com/mind-engage/mindengage-grades/internal/optimizer"
	"github.com/mind-engage/mindengage-grades/internal/storage"
	syncx "github.com/mind-engage/mindengage-grades/internal/sync"
)

var (
	ErrSessionNotFound = errors.New("edit session not found")
	ErrNoBlobStore     = errors.New("no blob store configured")
)

// Service owns the live ledgers of open gradebooks. Each book is guarded by
// its own mutex; optimizer runs work on a clone taken under that mutex.
type Service struct {
	store        Store
	blobs        storage.BlobStore
	events       syncx.Appender
	metrics      *metrics.Recorder
	log          *zap.Logger
	bounds       course.Bounds
	maxElectives int
	newID        func() string
	now          func() time.Time

	mu   sync.Mutex
	live map[string]*liveBook
}

type liveBook struct {
	mu       sync.Mutex
	book     Book
	ledger   *ledger.Ledger
	sessions map[string]*ledger.Session
	cursor   *optimizer.Cursor
}

type Option func(*Service)

func WithBlobStore(b storage.BlobStore) Option { return func(s *Service) { s.blobs = b } }
func WithEvents(a syncx.Appender) Option       { return func(s *Service) { s.events = a } }
func WithMetrics(m *metrics.Recorder) Option   { return func(s *Service) { s.metrics = m } }
func WithLogger(l *zap.Logger) Option          { return func(s *Service) { s.log = l } }
func WithBounds(b course.Bounds) Option        { return func(s *Service) { s.bounds = b } }
func WithMaxElectives(n int) Option            { return func(s *Service) { s.maxElectives = n } }
func WithIDGenerator(f func() string) Option   { return func(s *Service) { s.newID = f } }
func WithClock(now func() time.Time) Option    { return func(s *Service) { s.now = now } }

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		log:          zap.NewNop(),
		bounds:       course.DefaultBounds(),
		maxElectives: optimizer.DefaultMaxElectives,
		newID:        uuid.NewString,
		now:          time.Now,
		live:         map[string]*liveBook{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ---- books ----

func (s *Service) CreateBook(ctx context.Context, ownerID, name string) (Book, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Book{}, ErrInvalidName
	}
	now := s.now().Unix()
	b, err := s.store.CreateBook(ctx, Book{ID: s.newID(), OwnerID: ownerID, Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return Book{}, err
	}
	s.emit(ctx, syncx.TypeBookCreated, b.ID, map[string]string{"owner_id": ownerID, "name": name})
	return b, nil
}

func (s *Service) ListBooks(ctx context.Context, ownerID string) ([]Book, error) {
	return s.store.ListBooks(ctx, ownerID)
}

func (s *Service) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return err
	}
	lb.mu.Lock()
	name := lb.book.Name
	lb.mu.Unlock()
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}
	s.evict(bookID)
	if s.blobs != nil {
		for _, suffix := range []string{".csv", "_best_options.txt"} {
			if err := s.blobs.Delete(blobKey(ownerID, name, suffix)); err != nil {
				s.log.Warn("delete saved file", zap.String("book", bookID), zap.Error(err))
			}
		}
	}
	return nil
}

// Snapshot returns the book and a private clone of its ledger.
func (s *Service) Snapshot(ctx context.Context, ownerID, bookID string) (Book, *ledger.Ledger, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return Book{}, nil, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.book, lb.ledger.Clone(), nil
}

// Summary is the book's course table with its statistics.
type Summary struct {
	Book            Book                   `json:"book"`
	Courses         []course.Record        `json:"-"`
	Characteristics ledger.Characteristics `json:"characteristics"`
	ElectiveIDs     []string               `json:"elective_ids"`
	CategoryTotals  map[string]float64     `json:"category_totals"`
}

func (s *Service) Summary(ctx context.Context, ownerID, bookID string) (Summary, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return Summary{}, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return Summary{
		Book:            lb.book,
		Courses:         lb.ledger.Records(),
		Characteristics: lb.ledger.Characteristics(),
		ElectiveIDs:     lb.ledger.ElectiveIDs(),
		CategoryTotals:  lb.ledger.CategoryTotals(),
	}, nil
}

// Charts is the data behind the grade bar plot, histogram and category pie.
type Charts struct {
	Bars       []ledger.Bar   `json:"bars"`
	Histogram  []ledger.Bin   `json:"histogram"`
	Categories []ledger.Share `json:"categories"`
}

func (s *Service) Charts(ctx context.Context, ownerID, bookID string) (Charts, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return Charts{}, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return Charts{
		Bars:       lb.ledger.GradeBars(),
		Histogram:  lb.ledger.Histogram(),
		Categories: lb.ledger.CategoryShares(),
	}, nil
}

// ---- direct edits ----

// AddCourse stores r, replacing any course with the same id.
func (s *Service) AddCourse(ctx context.Context, ownerID, bookID string, r course.Record) error {
	if err := s.bounds.Check(r); err != nil {
		return err
	}
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	ledger.Upsert(lb.ledger, r)
	if err := s.persist(ctx, lb); err != nil {
		return err
	}
	s.metrics.Mutation("add")
	s.emit(ctx, syncx.TypeCourseAdded, bookID, r.Fields())
	return nil
}

// RemoveCourse reports ledger.ErrNotFound for an unknown id; the ledger is
// left as it was.
func (s *Service) RemoveCourse(ctx context.Context, ownerID, bookID, courseID string) error {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if _, ok := lb.ledger.Remove(courseID); !ok {
		return ledger.ErrNotFound
	}
	if err := s.persist(ctx, lb); err != nil {
		return err
	}
	s.metrics.Mutation("remove")
	s.emit(ctx, syncx.TypeCourseRemoved, bookID, map[string]string{"course_id": courseID})
	return nil
}

func (s *Service) SetQuota(ctx context.Context, ownerID, bookID string, quota int) (int, error) {
	if quota < 0 {
		return 0, optimizer.ErrNegativeQuota
	}
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return 0, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if err := s.store.SetQuota(ctx, bookID, quota); err != nil {
		return 0, err
	}
	q := lb.ledger.SetTargetQuota(quota)
	lb.book.Quota = &q
	s.emit(ctx, syncx.TypeQuotaSet, bookID, map[string]int{"quota": q})
	return q, nil
}

// ---- optimizer ----

// OptionView is one optimizer result resolved to course names.
type OptionView struct {
	IDs     []string `json:"ids"`
	Names   []string `json:"names"`
	Points  float64  `json:"points"`
	Average float64  `json:"average"`
}

// Optimize runs the elective search against the book's target quota and
// keeps the ranked results for NextOption.
func (s *Service) Optimize(ctx context.Context, ownerID, bookID string) (optimizer.Run, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return optimizer.Run{}, err
	}
	lb.mu.Lock()
	quota, ok := lb.ledger.TargetQuota()
	snap := lb.ledger.Clone()
	lb.mu.Unlock()
	if !ok {
		return optimizer.Run{}, ErrNoQuota
	}

	start := s.now()
	pool := snap.Electives()
	run, err := optimizer.Best(pool, quota, optimizer.WithMaxElectives(s.maxElectives))
	took := s.now().Sub(start)
	if err != nil {
		s.metrics.OptimizerRun("error", len(pool), 0, took)
		return optimizer.Run{}, err
	}
	outcome := "match"
	if run.Fallback {
		outcome = "fallback"
	}
	s.metrics.OptimizerRun(outcome, len(pool), run.Enumerated, took)
	s.log.Debug("optimizer run",
		zap.String("book", bookID),
		zap.Int("quota", quota),
		zap.Int("pool", len(pool)),
		zap.Int("results", len(run.Results)),
		zap.Bool("fallback", run.Fallback),
		zap.Duration("took", took))

	lb.mu.Lock()
	lb.cursor = optimizer.NewCursor(run.Results)
	lb.mu.Unlock()
	return run, nil
}

// NextOption pulls the next stored result; ok is false when exhausted.
func (s *Service) NextOption(ctx context.Context, ownerID, bookID string) (OptionView, bool, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return OptionView{}, false, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.cursor == nil {
		return OptionView{}, false, ErrNoOptions
	}
	r, ok := lb.cursor.Next()
	if !ok {
		return OptionView{}, false, nil
	}
	return view(r, lb.ledger.Name), true, nil
}

// Options lists every stored result of the last run in rank order.
func (s *Service) Options(ctx context.Context, ownerID, bookID string) ([]OptionView, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.cursor == nil {
		return nil, ErrNoOptions
	}
	res := lb.cursor.Results()
	out := make([]OptionView, len(res))
	for i, r := range res {
		out[i] = view(r, lb.ledger.Name)
	}
	return out, nil
}

func view(r optimizer.Result, nameOf func(string) string) OptionView {
	v := OptionView{IDs: r.IDs, Names: make([]string, len(r.IDs)), Points: r.Points, Average: math.Round(r.Average*1000) / 1000}
	for i, id := range r.IDs {
		v.Names[i] = nameOf(id)
	}
	return v
}

// ---- edit sessions ----

func (s *Service) BeginEdit(ctx context.Context, ownerID, bookID string) (string, error) {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return "", err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	id := s.newID()
	lb.sessions[id] = lb.ledger.BeginEdit()
	return id, nil
}

func (s *Service) SessionPut(ctx context.Context, ownerID, bookID, sessionID string, r course.Record) error {
	if err := s.bounds.Check(r); err != nil {
		return err
	}
	return s.withSession(ctx, ownerID, bookID, sessionID, func(_ *liveBook, se *ledger.Session) error {
		return se.Put(r)
	})
}

func (s *Service) SessionRemove(ctx context.Context, ownerID, bookID, sessionID, courseID string) error {
	return s.withSession(ctx, ownerID, bookID, sessionID, func(_ *liveBook, se *ledger.Session) error {
		return se.Remove(courseID)
	})
}

// SessionSnapshot returns a clone of the session's working ledger.
func (s *Service) SessionSnapshot(ctx context.Context, ownerID, bookID, sessionID string) (*ledger.Ledger, error) {
	var out *ledger.Ledger
	err := s.withSession(ctx, ownerID, bookID, sessionID, func(_ *liveBook, se *ledger.Session) error {
		out = se.Working().Clone()
		return nil
	})
	return out, err
}

// Commit replaces the book's courses with the session's and persists them.
func (s *Service) Commit(ctx context.Context, ownerID, bookID, sessionID string) error {
	return s.withSession(ctx, ownerID, bookID, sessionID, func(lb *liveBook, se *ledger.Session) error {
		delete(lb.sessions, sessionID)
		if err := se.Commit(); err != nil {
			return err
		}
		if err := s.persist(ctx, lb); err != nil {
			return err
		}
		s.metrics.Mutation("commit")
		s.emit(ctx, syncx.TypeCoursesCommitted, bookID, map[string]int{"courses": lb.ledger.Len()})
		return nil
	})
}

func (s *Service) Cancel(ctx context.Context, ownerID, bookID, sessionID string) error {
	return s.withSession(ctx, ownerID, bookID, sessionID, func(lb *liveBook, se *ledger.Session) error {
		delete(lb.sessions, sessionID)
		se.Cancel()
		return nil
	})
}

func (s *Service) withSession(ctx context.Context, ownerID, bookID, sessionID string, fn func(*liveBook, *ledger.Session) error) error {
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	se, ok := lb.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(lb, se)
}

// ---- files ----

// Import replaces the book's courses with the parsed file. Nothing changes
// if any line is invalid.
func (s *Service) Import(ctx context.Context, ownerID, bookID string, r io.Reader) (int, error) {
	recs, err := gradefile.Read(r, s.bounds)
	if err != nil {
		return 0, err
	}
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return 0, err
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.ledger.Replace(recs)
	lb.cursor = nil
	if err := s.persist(ctx, lb); err != nil {
		return 0, err
	}
	s.metrics.Mutation("import")
	s.emit(ctx, syncx.TypeCoursesImported, bookID, map[string]int{"courses": len(recs)})
	return len(recs), nil
}

func (s *Service) Export(ctx context.Context, ownerID, bookID string, w io.Writer) error {
	_, l, err := s.Snapshot(ctx, ownerID, bookID)
	if err != nil {
		return err
	}
	return gradefile.Write(w, l.Records())
}

// SaveGradeFile writes the course file to the blob store and returns its key.
func (s *Service) SaveGradeFile(ctx context.Context, ownerID, bookID string) (string, error) {
	if s.blobs == nil {
		return "", ErrNoBlobStore
	}
	b, l, err := s.Snapshot(ctx, ownerID, bookID)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := gradefile.Write(&buf, l.Records()); err != nil {
		return "", err
	}
	return s.blobs.Put(blobKey(ownerID, b.Name, ".csv"), &buf)
}

// SaveBestOptions writes every result of the last optimizer run as a report.
func (s *Service) SaveBestOptions(ctx context.Context, ownerID, bookID string) (string, error) {
	if s.blobs == nil {
		return "", ErrNoBlobStore
	}
	lb, err := s.open(ctx, ownerID, bookID)
	if err != nil {
		return "", err
	}
	lb.mu.Lock()
	if lb.cursor == nil {
		lb.mu.Unlock()
		return "", ErrNoOptions
	}
	var buf bytes.Buffer
	err = gradefile.WriteBestOptions(&buf, lb.cursor.Results(), lb.ledger.Name)
	name := lb.book.Name
	lb.mu.Unlock()
	if err != nil {
		return "", err
	}
	return s.blobs.Put(blobKey(ownerID, name, "_best_options.txt"), &buf)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func blobKey(ownerID, name, suffix string) string {
	return OwnerPrefix(ownerID) + unsafeName.ReplaceAllString(name, "_") + suffix
}

// OwnerPrefix is the blob key prefix under which an owner's files are saved.
func OwnerPrefix(ownerID string) string {
	return unsafeName.ReplaceAllString(ownerID, "_") + "/"
}

// ---- internals ----

func (s *Service) open(ctx context.Context, ownerID, bookID string) (*liveBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lb, ok := s.live[bookID]; ok {
		if lb.book.OwnerID != ownerID {
			return nil, ErrNotFound
		}
		return lb, nil
	}
	b, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	recs, err := s.store.LoadRecords(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	l := ledger.New()
	for _, r := range recs {
		l.Add(r)
	}
	if b.Quota != nil {
		l.SetTargetQuota(*b.Quota)
	}
	lb := &liveBook{book: b, ledger: l, sessions: map[string]*ledger.Session{}}
	s.live[bookID] = lb
	return lb, nil
}

// persist writes lb's records. On failure the book is evicted so the next
// access reloads what the store holds. Caller holds lb.mu.
func (s *Service) persist(ctx context.Context, lb *liveBook) error {
	if err := s.store.SaveRecords(ctx, lb.book.ID, lb.ledger.Records()); err != nil {
		s.log.Error("persist courses", zap.String("book", lb.book.ID), zap.Error(err))
		s.evict(lb.book.ID)
		return err
	}
	lb.book.UpdatedAt = s.now().Unix()
	return nil
}

func (s *Service) evict(bookID string) {
	s.mu.Lock()
	delete(s.live, bookID)
	s.mu.Unlock()
}

func (s *Service) emit(ctx context.Context, typ, key string, data any) {
	if s.events == nil {
		return
	}
	e, err := syncx.NewEvent(typ, key, data)
	if err == nil {
		err = s.events.Append(ctx, e)
	}
	if err != nil {
		s.log.Warn("event log append", zap.String("type", typ), zap.String("key", key), zap.Error(err))
	}
}
