// Package policyfile reads attendance policies and holiday calendars from a
// YAML document. It backs the read-only file policy source and the startup
// seed of the database policy store.
package policyfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

type Document struct {
	Policies map[policy.StaffType]PolicyEntry    `yaml:"policies"`
	Holidays map[policy.StaffType][]HolidayEntry `yaml:"holidays"`
}

type PolicyEntry struct {
	MinimumHoursFullDay               float64 `yaml:"minimum_hours_full_day"`
	MinimumHoursHalfDay               float64 `yaml:"minimum_hours_half_day"`
	SickLeaveCertificateThresholdDays int     `yaml:"sick_leave_certificate_threshold_days"`
}

type HolidayEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// Parse decodes and validates a policy document. Both staff types must have a
// policy; holidays are optional.
func Parse(r io.Reader) (policy.PolicySet, policy.Holidays, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return policy.PolicySet{}, policy.Holidays{}, fmt.Errorf("failed to decode policy file: %w", err)
	}
	return doc.Resolve()
}

// Load reads the document at path.
func Load(path string) (policy.PolicySet, policy.Holidays, error) {
	f, err := os.Open(path)
	if err != nil {
		return policy.PolicySet{}, policy.Holidays{}, fmt.Errorf("failed to open policy file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Resolve converts the document into domain values, validating every entry.
func (d Document) Resolve() (policy.PolicySet, policy.Holidays, error) {
	var set policy.PolicySet
	for _, st := range []policy.StaffType{policy.StaffTypeOffice, policy.StaffTypeField} {
		entry, ok := d.Policies[st]
		if !ok {
			return policy.PolicySet{}, policy.Holidays{}, fmt.Errorf("policy file has no %s policy", st)
		}
		req := policy.UpdatePolicyRequest{
			StaffType:                         st,
			MinimumHoursFullDay:               entry.MinimumHoursFullDay,
			MinimumHoursHalfDay:               entry.MinimumHoursHalfDay,
			SickLeaveCertificateThresholdDays: entry.SickLeaveCertificateThresholdDays,
		}
		if err := req.Validate(); err != nil {
			return policy.PolicySet{}, policy.Holidays{}, fmt.Errorf("invalid %s policy: %w", st, err)
		}
		p := policy.AttendancePolicy{
			StaffType:                         st,
			MinimumHoursFullDay:               entry.MinimumHoursFullDay,
			MinimumHoursHalfDay:               entry.MinimumHoursHalfDay,
			SickLeaveCertificateThresholdDays: entry.SickLeaveCertificateThresholdDays,
		}
		if st == policy.StaffTypeOffice {
			set.Office = p
		} else {
			set.Field = p
		}
	}

	var holidays policy.Holidays
	for st, entries := range d.Holidays {
		if !st.IsValid() {
			return policy.PolicySet{}, policy.Holidays{}, fmt.Errorf("%w: %q", policy.ErrInvalidStaffType, st)
		}
		for i, e := range entries {
			date, err := dateutil.Parse(e.Date)
			if err != nil {
				return policy.PolicySet{}, policy.Holidays{}, fmt.Errorf("%s holiday %d: %w", st, i, err)
			}
			h := policy.Holiday{Date: date, StaffType: st, Name: e.Name}
			if st == policy.StaffTypeOffice {
				holidays.Office = append(holidays.Office, h)
			} else {
				holidays.Field = append(holidays.Field, h)
			}
		}
	}
	return set, holidays, nil
}

// Store serves a policy document as a read-only policy.Repository.
type Store struct {
	mu       sync.RWMutex
	path     string
	set      policy.PolicySet
	holidays policy.Holidays
}

// NewStore loads path once. Call Reload to pick up edits.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the file. On error the previous contents stay in use.
func (s *Store) Reload() error {
	set, holidays, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.set, s.holidays = set, holidays
	s.mu.Unlock()
	return nil
}

func (s *Store) GetAttendancePolicy(ctx context.Context) (policy.PolicySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set, nil
}

func (s *Store) GetHolidays(ctx context.Context) (policy.Holidays, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return policy.Holidays{
		Office: append([]policy.Holiday(nil), s.holidays.Office...),
		Field:  append([]policy.Holiday(nil), s.holidays.Field...),
	}, nil
}

func (s *Store) UpsertPolicy(ctx context.Context, p policy.AttendancePolicy) (policy.AttendancePolicy, error) {
	return policy.AttendancePolicy{}, policy.ErrReadOnlyPolicySet
}

func (s *Store) CreateHoliday(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	return policy.Holiday{}, policy.ErrReadOnlyPolicySet
}

func (s *Store) DeleteHoliday(ctx context.Context, staffType policy.StaffType, date time.Time) error {
	return policy.ErrReadOnlyPolicySet
}

// Seed copies a document into a writable repository. Holidays that already
// exist are left alone, so seeding twice is harmless.
func Seed(ctx context.Context, repo policy.Repository, set policy.PolicySet, holidays policy.Holidays) (int, error) {
	for _, p := range []policy.AttendancePolicy{set.Office, set.Field} {
		if _, err := repo.UpsertPolicy(ctx, p); err != nil {
			return 0, fmt.Errorf("failed to seed %s policy: %w", p.StaffType, err)
		}
	}
	created := 0
	for _, h := range holidays.All() {
		if _, err := repo.CreateHoliday(ctx, h); err != nil {
			if errors.Is(err, policy.ErrHolidayExists) {
				continue
			}
			return created, fmt.Errorf("failed to seed holiday %s: %w", dateutil.Format(h.Date), err)
		}
		created++
	}
	return created, nil
}

var _ policy.Repository = (*Store)(nil)
