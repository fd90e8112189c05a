package service

import (
	"context"

	"github.com/iliyamo/summer-camp/internal/model"
	"github.com/iliyamo/summer-camp/internal/repository"
)

// ShowcaseService serves the read-only home page rankings. Results are a
// full scan ordered by enrolledStudents descending, ties in insertion
// order. There is no pagination; these collections are seeded and small.
type ShowcaseService struct {
	classes  repository.Collection[model.PopularClass]
	teachers repository.Collection[model.PopularTeacher]
}

func NewShowcaseService(classes repository.Collection[model.PopularClass], teachers repository.Collection[model.PopularTeacher]) *ShowcaseService {
	return &ShowcaseService{classes: classes, teachers: teachers}
}

func (s *ShowcaseService) PopularClasses(ctx context.Context) ([]model.PopularClass, error) {
	return s.classes.Find(ctx, nil, repository.SortBy("enrolledStudents", true))
}

func (s *ShowcaseService) PopularTeachers(ctx context.Context) ([]model.PopularTeacher, error) {
	return s.teachers.Find(ctx, nil, repository.SortBy("enrolledStudents", true))
}
