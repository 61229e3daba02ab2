package models

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
)

type Experience string

const (
	ExperienceUnset  Experience = ""
	ExperienceJunior Experience = "Junior"
	ExperienceMid    Experience = "Mid"
	ExperienceSenior Experience = "Senior"
)

var Experiences = []Experience{ExperienceJunior, ExperienceMid, ExperienceSenior}

func ParseExperience(s string) (Experience, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ExperienceUnset, nil
	}
	for _, e := range Experiences {
		if strings.EqualFold(string(e), s) {
			return e, nil
		}
	}
	return "", Invalid("experience", "unknown experience level %q", s)
}

// Application is a public submission in the applications collection. JobTitle is
// copied from the posting at submission time so the record outlives the job.
type Application struct {
	ID          string     `bson:"-" json:"id"`
	JobID       string     `bson:"jobId" json:"jobId"`
	JobTitle    string     `bson:"jobTitle" json:"jobTitle"`
	FullName    string     `bson:"fullName" json:"fullName"`
	Email       string     `bson:"email" json:"email"`
	Phone       string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Portfolio   string     `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
	Experience  Experience `bson:"experience,omitempty" json:"experience,omitempty"`
	ResumeURL   string     `bson:"resumeUrl" json:"resumeUrl"`
	CoverLetter string     `bson:"coverLetter,omitempty" json:"coverLetter,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
}

// ApplicationFields is what the applicant types into the form.
type ApplicationFields struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Portfolio   string `json:"portfolio"`
	Experience  string `json:"experience"`
	ResumeURL   string `json:"resumeUrl"`
	CoverLetter string `json:"coverLetter"`
}

// ForJob validates the form and builds the record to persist for job.
func (f ApplicationFields) ForJob(job Job) (Application, error) {
	resume := strings.TrimSpace(f.ResumeURL)
	if resume == "" {
		return Application{}, Invalid("resumeUrl", "Please provide a resume link.")
	}
	resume, err := NormalizeLink("resumeUrl", resume)
	if err != nil {
		return Application{}, err
	}
	name := strings.TrimSpace(f.FullName)
	if name == "" {
		return Application{}, Invalid("fullName", "full name is required")
	}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return Application{}, Invalid("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Application{}, Invalid("email", "invalid email address")
	}
	portfolio := strings.TrimSpace(f.Portfolio)
	if portfolio != "" {
		if portfolio, err = NormalizeLink("portfolio", portfolio); err != nil {
			return Application{}, err
		}
	}
	exp, err := ParseExperience(f.Experience)
	if err != nil {
		return Application{}, err
	}
	return Application{
		JobID:       job.ID,
		JobTitle:    job.Title,
		FullName:    name,
		Email:       email,
		Phone:       strings.TrimSpace(f.Phone),
		Portfolio:   portfolio,
		Experience:  exp,
		ResumeURL:   resume,
		CoverLetter: strings.TrimSpace(f.CoverLetter),
	}, nil
}

// NormalizeLink prefixes https:// when the scheme is missing and requires an
// http or https link with a host.
func NormalizeLink(field, raw string) (string, error) {
	if i := strings.Index(raw, "://"); i < 0 || strings.ContainsAny(raw[:i], "/?#") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", Invalid(field, "invalid link %q", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Invalid(field, "unsupported link scheme %q", u.Scheme)
	}
	if u.Host == "" || strings.HasSuffix(u.Host, ":") || strings.ContainsAny(u.Host, " \t") {
		return "", Invalid(field, "invalid link %q", raw)
	}
	return u.String(), nil
}
