package models

import (
	"strings"
	"time"
)

type Department string

const (
	DeptEngineering Department = "Engineering"
	DeptDesign      Department = "Design"
	DeptMarketing   Department = "Marketing"
	DeptSales       Department = "Sales"
	DeptOperations  Department = "Operations"
)

// Departments lists the allowed departments in form order.
var Departments = []Department{DeptEngineering, DeptDesign, DeptMarketing, DeptSales, DeptOperations}

func ParseDepartment(s string) (Department, error) {
	for _, d := range Departments {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", Invalid("department", "unknown department %q", s)
}

type JobType string

const (
	TypeFullTime   JobType = "Full-time"
	TypePartTime   JobType = "Part-time"
	TypeContract   JobType = "Contract"
	TypeInternship JobType = "Internship"
)

var JobTypes = []JobType{TypeFullTime, TypePartTime, TypeContract, TypeInternship}

func ParseJobType(s string) (JobType, error) {
	for _, t := range JobTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", Invalid("type", "unknown job type %q", s)
}

// Job is a posting in the jobs collection.
type Job struct {
	ID          string     `bson:"-" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Department  Department `bson:"department" json:"department"`
	Location    string     `bson:"location" json:"location"`
	Type        JobType    `bson:"type" json:"type"`
	Description string     `bson:"description" json:"description"`
	HasDuration bool       `bson:"hasDuration" json:"hasDuration"`
	StartDate   *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Fields returns the editable part of the job, as the edit form pre-populates it.
func (j Job) Fields() JobFields {
	f := JobFields{
		Title:       j.Title,
		Department:  j.Department,
		Location:    j.Location,
		Type:        j.Type,
		Description: j.Description,
		HasDuration: j.HasDuration,
	}
	if j.HasDuration {
		f.StartDate = copyTime(j.StartDate)
		f.EndDate = copyTime(j.EndDate)
	}
	return f
}

// JobFields is the administrator form record for creating or editing a job.
type JobFields struct {
	Title       string     `json:"title"`
	Department  Department `json:"department"`
	Location    string     `json:"location"`
	Type        JobType    `json:"type"`
	Description string     `json:"description"`
	HasDuration bool       `json:"hasDuration"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// DefaultJobFields is the blank create form.
func DefaultJobFields() JobFields {
	return JobFields{
		Department: DeptEngineering,
		Location:   "Remote",
		Type:       TypeFullTime,
	}
}

// Validate checks the form before anything is written. When HasDuration is set
// both dates are required and the window must not be empty.
func (f JobFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return Invalid("title", "title is required")
	}
	if _, err := ParseDepartment(string(f.Department)); err != nil {
		return err
	}
	if _, err := ParseJobType(string(f.Type)); err != nil {
		return err
	}
	if !f.HasDuration {
		return nil
	}
	if f.StartDate == nil || f.StartDate.IsZero() {
		return Invalid("startDate", "start date is required for a scheduled posting")
	}
	if f.EndDate == nil || f.EndDate.IsZero() {
		return Invalid("endDate", "end date is required for a scheduled posting")
	}
	if !f.StartDate.Before(*f.EndDate) {
		return Invalid("endDate", "end date must be after start date")
	}
	return nil
}

// Normalized trims text fields and drops dates when no duration is set.
func (f JobFields) Normalized() JobFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	if !f.HasDuration {
		f.StartDate, f.EndDate = nil, nil
	}
	return f
}

// JobInput is the wire shape of the job form: enums and dates arrive as text.
type JobInput struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	HasDuration bool   `json:"hasDuration"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Draft converts the input without validating it, for a form still being
// filled in. Known enum values are canonicalized; only malformed dates fail.
func (in JobInput) Draft() (JobFields, error) {
	f := JobFields{
		Title:       in.Title,
		Department:  Department(strings.TrimSpace(in.Department)),
		Location:    in.Location,
		Type:        JobType(strings.TrimSpace(in.Type)),
		Description: in.Description,
		HasDuration: in.HasDuration,
	}
	if d, err := ParseDepartment(in.Department); err == nil {
		f.Department = d
	}
	if t, err := ParseJobType(in.Type); err == nil {
		f.Type = t
	}
	if in.HasDuration {
		var err error
		if f.StartDate, err = ParseScheduleDate("startDate", in.StartDate); err != nil {
			return JobFields{}, err
		}
		if f.EndDate, err = ParseScheduleDate("endDate", in.EndDate); err != nil {
			return JobFields{}, err
		}
	}
	return f, nil
}

// Fields converts and validates the input.
func (in JobInput) Fields() (JobFields, error) {
	f, err := in.Draft()
	if err != nil {
		return JobFields{}, err
	}
	f = f.Normalized()
	return f, f.Validate()
}

var scheduleLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ParseScheduleDate accepts RFC 3339 and the datetime-local formats browsers send.
// Zoneless values are read as UTC. An empty value yields nil.
func ParseScheduleDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, Invalid(field, "malformed date %q", s)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
