package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/academy"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type AcademyRepository struct {
	db database.DBTX
}

func NewAcademyRepository(db database.DBTX) *AcademyRepository {
	return &AcademyRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *AcademyRepository) InTx(ctx context.Context, fn func(repo *AcademyRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&AcademyRepository{db: tx})
	})
}

func (r *AcademyRepository) CreateLecturer(ctx context.Context, l *academy.Lecturer) error {
	id, err := insert(ctx, r.db, "lecturers", query.Psql.Insert("lecturers").
		Columns("first_name", "last_name").
		Values(l.FirstName, l.LastName))
	if err != nil {
		return errors.Wrap(err, "creating lecturer")
	}

	l.ID = id
	return nil
}

func (r *AcademyRepository) CreateSubject(ctx context.Context, s *academy.Subject) error {
	id, err := insert(ctx, r.db, "subjects", query.Psql.Insert("subjects").
		Columns("name", "code", "lecturer_id").
		Values(s.Name, s.Code, s.LecturerID))
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}

	s.ID = id
	return nil
}

func (r *AcademyRepository) CreateStudent(ctx context.Context, s *academy.Student) error {
	_, err := exec(ctx, r.db, "students", query.Psql.Insert("students").
		Columns("student_id", "first_name", "last_name", "birth_date", "email").
		Values(s.StudentID, s.FirstName, s.LastName, s.BirthDate, s.Email))
	return errors.Wrap(err, "creating student")
}

func (r *AcademyRepository) StudentEmailTaken(ctx context.Context, email string) (bool, error) {
	return query.Taken(ctx, r.db, "students", "email", email, nil)
}

func (r *AcademyRepository) CreateEnrollment(ctx context.Context, e *academy.StudentEnrollment) error {
	id, err := insert(ctx, r.db, "student_enrollments", query.Psql.Insert("student_enrollments").
		Columns("student_id", "subject_id", "enrollment_date", "grade").
		Values(e.StudentID, e.SubjectID, e.EnrollmentDate, e.Grade))
	if err != nil {
		return errors.Wrap(err, "creating enrollment")
	}

	e.ID = id
	return nil
}

func (r *AcademyRepository) CreateLecturerProfile(ctx context.Context, p *academy.LecturerProfile) error {
	id, err := insert(ctx, r.db, "lecturer_profiles", query.Psql.Insert("lecturer_profiles").
		Columns("lecturer_id", "email", "bio", "office_location").
		Values(p.LecturerID, p.Email, nullable(p.Bio), nullable(p.OfficeLocation)))
	if err != nil {
		return errors.Wrap(err, "creating lecturer profile")
	}

	p.ID = id
	return nil
}

func (r *AcademyRepository) ProfileEmailTaken(ctx context.Context, email string) (bool, error) {
	return query.Taken(ctx, r.db, "lecturer_profiles", "email", email, nil)
}

// DeleteLecturer removes the lecturer and its profile. Subjects keep their
// rows with the lecturer cleared.
func (r *AcademyRepository) DeleteLecturer(ctx context.Context, id int64) (int64, error) {
	n, err := exec(ctx, r.db, "lecturers", query.Psql.Delete("lecturers").Where(sq.Eq{"id": id}))
	return n, errors.Wrap(err, "deleting lecturer")
}

// DeleteStudent removes the student and every enrollment of it.
func (r *AcademyRepository) DeleteStudent(ctx context.Context, studentID string) (int64, error) {
	n, err := exec(ctx, r.db, "students", query.Psql.Delete("students").Where(sq.Eq{"student_id": studentID}))
	return n, errors.Wrap(err, "deleting student")
}

// SubjectLecturer loads a subject with its lecturer's name. ok is false
// when the subject does not exist.
func (r *AcademyRepository) SubjectLecturer(ctx context.Context, subjectID int64) (academy.SubjectLecturer, bool, error) {
	b := query.Psql.Select(
		"s.name",
		"l.id IS NOT NULL AS has_lecturer",
		"COALESCE(l.first_name, '')",
		"COALESCE(l.last_name, '')",
	).
		From("subjects s").
		LeftJoin("lecturers l ON l.id = s.lecturer_id").
		Where(sq.Eq{"s.id": subjectID})

	item, ok, err := selectFirst(ctx, r.db, "subjects", b, func(row pgx.CollectableRow) (academy.SubjectLecturer, error) {
		var s academy.SubjectLecturer
		err := row.Scan(&s.SubjectName, &s.HasLecturer, &s.FirstName, &s.LastName)
		return s, err
	})
	return item, ok, errors.Wrap(err, "loading subject lecturer")
}

// Enrollments lists the enrollments of a student ordered by subject name.
func (r *AcademyRepository) Enrollments(ctx context.Context, studentID string) ([]academy.Enrollment, error) {
	b := query.Psql.Select("st.first_name", "st.last_name", "su.name", "e.grade").
		From("student_enrollments e").
		Join("students st ON st.student_id = e.student_id").
		Join("subjects su ON su.id = e.subject_id").
		Where(sq.Eq{"e.student_id": studentID}).
		OrderBy("su.name ASC")

	items, err := selectAll(ctx, r.db, "student_enrollments", b, func(row pgx.CollectableRow) (academy.Enrollment, error) {
		var e academy.Enrollment
		err := row.Scan(&e.FirstName, &e.LastName, &e.SubjectName, &e.Grade)
		return e, err
	})
	return items, errors.Wrap(err, "listing enrollments")
}

// CountEnrollments counts the enrollments of a subject.
func (r *AcademyRepository) CountEnrollments(ctx context.Context, subjectID int64) (int, error) {
	n, err := scalar[int](ctx, r.db, "student_enrollments", query.Psql.Select("COUNT(*)").
		From("student_enrollments").
		Where(sq.Eq{"subject_id": subjectID}))
	return n, errors.Wrap(err, "counting enrollments")
}
