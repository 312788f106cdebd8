package service

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
)

var santiago = mustLoad("America/Santiago")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type fakeStudents struct {
	byRUT    map[string]models.Student
	replaced [][]models.Student
}

func newFakeStudents(students ...models.Student) *fakeStudents {
	f := &fakeStudents{byRUT: map[string]models.Student{}}
	for _, s := range students {
		f.byRUT[s.RUT] = s
	}
	return f
}

func (f *fakeStudents) GetByRUT(_ context.Context, rut string) (*models.Student, error) {
	s, ok := f.byRUT[rut]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &s, nil
}

func (f *fakeStudents) SearchByPrefix(_ context.Context, prefix string, limit int) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.byRUT {
		if strings.HasPrefix(strings.ToLower(s.RUT), strings.ToLower(prefix)) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b models.Student) int { return strings.Compare(a.RUT, b.RUT) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStudents) ReplaceAll(_ context.Context, students []models.Student) error {
	f.replaced = append(f.replaced, students)
	f.byRUT = map[string]models.Student{}
	for _, s := range students {
		f.byRUT[s.RUT] = s
	}
	return nil
}

func (f *fakeStudents) Count(context.Context) (int, error) {
	return len(f.byRUT), nil
}

type fakeVisits struct {
	mu     sync.Mutex
	visits []models.Visit
}

func (f *fakeVisits) ListByDate(_ context.Context, date string) ([]models.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Visit{}
	for _, v := range f.visits {
		if v.Date == date {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVisits) Insert(_ context.Context, v models.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.has(v.RUT, v.Date, v.Meal) {
		return apperrors.ErrAlreadyRegistered
	}
	f.visits = append(f.visits, v)
	return nil
}

func (f *fakeVisits) Exists(_ context.Context, rut, date string, m meal.Type) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.has(rut, date, m), nil
}

func (f *fakeVisits) Merge(_ context.Context, visits []models.Visit) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := 0
	for _, v := range visits {
		if !f.has(v.RUT, v.Date, v.Meal) {
			f.visits = append(f.visits, v)
			added++
		}
	}
	return added, nil
}

func (f *fakeVisits) has(rut, date string, m meal.Type) bool {
	for _, v := range f.visits {
		if v.RUT == rut && v.Date == date && v.Meal == m {
			return true
		}
	}
	return false
}

type fakeJournal struct {
	mu        sync.Mutex
	enabled   bool
	remote    []models.Visit
	todayErr  error
	submitErr error
	submitted []models.Visit
}

func (f *fakeJournal) Enabled() bool { return f.enabled }

func (f *fakeJournal) Today(context.Context) ([]models.Visit, error) {
	return f.remote, f.todayErr
}

func (f *fakeJournal) Submit(_ context.Context, v models.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitted = append(f.submitted, v)
	return f.submitErr
}

type fakeSource struct {
	students []models.Student
	err      error
}

func (f *fakeSource) Fetch(context.Context) ([]models.Student, error) {
	return f.students, f.err
}

type fakeArchiver struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeArchiver) Save(_ context.Context, key, contentType string, body io.Reader) error {
	f.key = key
	f.contentType = contentType
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.body = b
	return f.err
}
