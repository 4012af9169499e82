// Package academy models lecturers, the subjects they teach and the
// students enrolled in those subjects.
package academy

import (
	"time"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/validation"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "subjects", Column: "lecturer_id", References: "lecturers", OnDelete: database.OnDeleteSetNull},
		database.Relation{Table: "student_enrollments", Column: "student_id", References: "students", ReferencesColumn: "student_id", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "student_enrollments", Column: "subject_id", References: "subjects", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "lecturer_profiles", Column: "lecturer_id", References: "lecturers", OnDelete: database.OnDeleteCascade},
	)
}

// Grade is the letter grade of an enrollment.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Valid reports whether g is one of the five letter grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

// String returns the string representation of the Grade.
func (g Grade) String() string {
	return string(g)
}

type Lecturer struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name" validate:"required,max=100"`
	LastName  string `json:"lastName" db:"last_name" validate:"required,max=100"`
}

func (l Lecturer) Validate() error {
	return validation.Struct(l)
}

// Subject is taught by at most one lecturer. Deleting the lecturer keeps
// the subject and clears LecturerID.
type Subject struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name" validate:"required,max=100"`
	Code       string `json:"code" db:"code" validate:"required,max=10"`
	LecturerID *int64 `json:"lecturerId" db:"lecturer_id"`
}

func (s Subject) Validate() error {
	return validation.Struct(s)
}

// Student is identified by its StudentID, not by a generated id.
type Student struct {
	StudentID string    `json:"studentId" db:"student_id" validate:"required,max=10"`
	FirstName string    `json:"firstName" db:"first_name" validate:"required,max=100"`
	LastName  string    `json:"lastName" db:"last_name" validate:"required,max=100"`
	BirthDate time.Time `json:"birthDate" db:"birth_date" validate:"required"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
}

func (s Student) Validate() error {
	return validation.Struct(s)
}

// StudentEnrollment links a student to a subject and carries the grade.
// It is removed together with either side.
type StudentEnrollment struct {
	ID             int64     `json:"id" db:"id"`
	StudentID      string    `json:"studentId" db:"student_id" validate:"required"`
	SubjectID      int64     `json:"subjectId" db:"subject_id" validate:"required"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`
	Grade          Grade     `json:"grade" db:"grade" validate:"choice"`
}

// ApplyDefaults dates an enrollment without a date to today.
func (e *StudentEnrollment) ApplyDefaults(now time.Time) {
	if e.EnrollmentDate.IsZero() {
		y, m, d := now.Date()
		e.EnrollmentDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

func (e StudentEnrollment) Validate() error {
	return validation.Struct(e)
}

// LecturerProfile is the one-to-one extension of a Lecturer.
type LecturerProfile struct {
	ID             int64  `json:"id" db:"id"`
	LecturerID     int64  `json:"lecturerId" db:"lecturer_id" validate:"required"`
	Email          string `json:"email" db:"email" validate:"required,email"`
	Bio            string `json:"bio" db:"bio"`
	OfficeLocation string `json:"officeLocation" db:"office_location" validate:"max=100"`
}

func (p LecturerProfile) Validate() error {
	return validation.Struct(p)
}

// SubjectLecturer is a subject with its lecturer's name, when it has one.
type SubjectLecturer struct {
	SubjectName string
	HasLecturer bool
	FirstName   string
	LastName    string
}

// Enrollment is one row of a student's enrollment listing.
type Enrollment struct {
	FirstName   string
	LastName    string
	SubjectName string
	Grade       Grade
}
