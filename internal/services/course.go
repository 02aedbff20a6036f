package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/types"
)

type CourseService interface {
	ListPublished(ctx context.Context) ([]*types.Course, error)
	GetDetail(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error)
}

type CourseDetail struct {
	Course *types.Course `json:"course"`
	Skills []*SkillNode  `json:"skills"`
}

// SkillNode is a skill with its lessons and child skills resolved, in
// position order.
type SkillNode struct {
	ID       uuid.UUID      `json:"id"`
	Title    string         `json:"title"`
	Position int            `json:"position"`
	Lessons  []*LessonEntry `json:"lessons"`
	Children []*SkillNode   `json:"children"`
}

type LessonEntry struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	TheoryContent interface{}   `json:"theory_content"`
	XPReward      int           `json:"xp_reward"`
	Position      int           `json:"position"`
	Tasks         []*types.Task `json:"tasks"`
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	lessonRepo repos.LessonRepo
	taskRepo   repos.TaskRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	taskRepo repos.TaskRepo,
) CourseService {
	serviceLog := baseLog.With("service", "CourseService")
	return &courseService{
		db:         db,
		log:        serviceLog,
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		taskRepo:   taskRepo,
	}
}

func (cs *courseService) ListPublished(ctx context.Context) ([]*types.Course, error) {
	return cs.courseRepo.ListPublished(ctx, nil)
}

func (cs *courseService) GetDetail(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	course, err := cs.courseRepo.GetPublishedByID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	skills, err := cs.courseRepo.ListSkills(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	skillIDs := make([]uuid.UUID, 0, len(skills))
	for _, skill := range skills {
		skillIDs = append(skillIDs, skill.ID)
	}

	lessons, err := cs.lessonRepo.ListBySkillIDs(ctx, nil, skillIDs)
	if err != nil {
		return nil, err
	}
	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	tasks, err := cs.taskRepo.ListByLessonIDs(ctx, nil, lessonIDs)
	if err != nil {
		return nil, err
	}
	tasksByLesson := make(map[uuid.UUID][]*types.Task, len(lessons))
	for _, task := range tasks {
		tasksByLesson[task.LessonID] = append(tasksByLesson[task.LessonID], task)
	}

	lessonsBySkill := make(map[uuid.UUID][]*LessonEntry, len(skills))
	for _, lesson := range lessons {
		entry := &LessonEntry{
			ID:            lesson.ID,
			Title:         lesson.Title,
			TheoryContent: lesson.TheoryContent,
			XPReward:      lesson.XPReward,
			Position:      lesson.Position,
			Tasks:         tasksByLesson[lesson.ID],
		}
		lessonsBySkill[lesson.SkillID] = append(lessonsBySkill[lesson.SkillID], entry)
	}

	nodes := make(map[uuid.UUID]*SkillNode, len(skills))
	for _, skill := range skills {
		nodes[skill.ID] = &SkillNode{
			ID:       skill.ID,
			Title:    skill.Title,
			Position: skill.Position,
			Lessons:  lessonsBySkill[skill.ID],
		}
	}

	var roots []*SkillNode
	for _, skill := range skills {
		node := nodes[skill.ID]
		if skill.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*skill.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// orphaned subtree, surface it at the top rather than drop it
			roots = append(roots, node)
		}
	}

	return &CourseDetail{Course: course, Skills: roots}, nil
}
