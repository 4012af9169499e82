package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/academy"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

type AcademyService struct {
	repo     *repository.AcademyRepository
	observer *logger.Observer

	// now dates enrollments created without a date.
	now func() time.Time
}

func NewAcademyService(repo *repository.AcademyRepository, observer *logger.Observer) *AcademyService {
	return &AcademyService{repo: repo, observer: observer, now: time.Now}
}

func (s *AcademyService) CreateLecturer(ctx context.Context, l *academy.Lecturer) error {
	return logger.Run(ctx, s.observer, "create_lecturer", func(ctx context.Context) error {
		if err := validation.Check(l); err != nil {
			return err
		}
		return s.repo.CreateLecturer(ctx, l)
	})
}

func (s *AcademyService) CreateSubject(ctx context.Context, subject *academy.Subject) error {
	return logger.Run(ctx, s.observer, "create_subject", func(ctx context.Context) error {
		if err := validation.Check(subject); err != nil {
			return err
		}
		return s.repo.CreateSubject(ctx, subject)
	})
}

func (s *AcademyService) CreateStudent(ctx context.Context, student *academy.Student) error {
	return logger.Run(ctx, s.observer, "create_student", func(ctx context.Context) error {
		taken, err := unique(ctx, s.repo.StudentEmailTaken, student.Email, "email", "Student with this email already exists.")
		if err != nil {
			return err
		}
		if err := validation.Merge(validation.Check(student), taken...); err != nil {
			return err
		}
		return s.repo.CreateStudent(ctx, student)
	})
}

// Enroll registers a student for a subject. An enrollment without a date
// is dated today.
func (s *AcademyService) Enroll(ctx context.Context, e *academy.StudentEnrollment) error {
	return logger.Run(ctx, s.observer, "enroll", func(ctx context.Context) error {
		e.ApplyDefaults(s.now())
		if err := validation.Check(e); err != nil {
			return err
		}
		return s.repo.CreateEnrollment(ctx, e)
	})
}

func (s *AcademyService) CreateLecturerProfile(ctx context.Context, p *academy.LecturerProfile) error {
	return logger.Run(ctx, s.observer, "create_lecturer_profile", func(ctx context.Context) error {
		taken, err := unique(ctx, s.repo.ProfileEmailTaken, p.Email, "email", "Lecturer profile with this email already exists.")
		if err != nil {
			return err
		}
		if err := validation.Merge(validation.Check(p), taken...); err != nil {
			return err
		}
		return s.repo.CreateLecturerProfile(ctx, p)
	})
}

// DeleteLecturer removes a lecturer and its profile. The subjects it
// taught stay, without a lecturer.
func (s *AcademyService) DeleteLecturer(ctx context.Context, id int64) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_lecturer", func(ctx context.Context) (int64, error) {
		return s.repo.DeleteLecturer(ctx, id)
	})
}

// DeleteStudent removes a student together with its enrollments.
func (s *AcademyService) DeleteStudent(ctx context.Context, studentID string) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_student", func(ctx context.Context) (int64, error) {
		return s.repo.DeleteStudent(ctx, studentID)
	})
}

// DescribeSubject names the lecturer of a subject. It returns "" for an
// unknown subject.
func (s *AcademyService) DescribeSubject(ctx context.Context, subjectID int64) (string, error) {
	return logger.Observe(ctx, s.observer, "describe_subject", func(ctx context.Context) (string, error) {
		subject, ok, err := s.repo.SubjectLecturer(ctx, subjectID)
		if err != nil || !ok {
			return "", err
		}

		if !subject.HasLecturer {
			return fmt.Sprintf("The lecturer for %s is not assigned.", subject.SubjectName), nil
		}
		return fmt.Sprintf("The lecturer for %s is %s %s.", subject.SubjectName, subject.FirstName, subject.LastName), nil
	})
}

func (s *AcademyService) GetEnrollments(ctx context.Context, studentID string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_enrollments", func(ctx context.Context) (string, error) {
		enrollments, err := s.repo.Enrollments(ctx, studentID)
		if err != nil {
			return "", err
		}

		return lines(enrollments, func(e academy.Enrollment) string {
			return fmt.Sprintf("%s %s is enrolled in %s with grade %s.", e.FirstName, e.LastName, e.SubjectName, e.Grade)
		}), nil
	})
}

func (s *AcademyService) CountEnrollments(ctx context.Context, subjectID int64) (int, error) {
	return logger.Observe(ctx, s.observer, "count_enrollments", func(ctx context.Context) (int, error) {
		return s.repo.CountEnrollments(ctx, subjectID)
	})
}
