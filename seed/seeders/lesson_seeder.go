package seeders

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// LessonSeeder loads the starter course
type LessonSeeder struct {
	db *gorm.DB
}

func NewLessonSeeder(db *gorm.DB) *LessonSeeder {
	return &LessonSeeder{db: db}
}

type seedLesson struct {
	title       string
	description string
	videoURL    string
	duration    int
	quiz        *seedQuiz
}

type seedQuiz struct {
	title     string
	questions []seedQuestion
}

type seedQuestion struct {
	text    string
	qType   string
	options []string
	correct []int
}

func (s *LessonSeeder) SeedLessons() error {
	var count int64
	if err := s.db.Model(&model.Lesson{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Lessons already exist, skipping lesson seeding")
		return nil
	}

	course := []seedLesson{
		{
			title:       "Welcome to Perplexity",
			description: "What Perplexity is, how it differs from a search engine, and how this course works.",
			videoURL:    "https://www.youtube.com/watch?v=intro-perplexity",
			duration:    8,
			quiz: &seedQuiz{
				title: "Getting started check",
				questions: []seedQuestion{
					{
						text:    "What does Perplexity return alongside its answers?",
						qType:   shared.QuestionTypeSingle,
						options: []string{"Source citations", "Sponsored links", "Only images"},
						correct: []int{0},
					},
					{
						text:    "Which of these are valid ways to start a search?",
						qType:   shared.QuestionTypeMultiple,
						options: []string{"Typing a question", "Voice input", "Uploading a file", "Sending a fax"},
						correct: []int{0, 1, 2},
					},
				},
			},
		},
		{
			title:       "Asking Better Questions",
			description: "Prompting techniques that get precise, well-sourced answers.",
			videoURL:    "https://www.youtube.com/watch?v=better-questions",
			duration:    12,
		},
		{
			title:       "Focus Modes and Sources",
			description: "Academic, writing and social focus modes, and how to audit citations.",
			videoURL:    "https://www.youtube.com/watch?v=focus-modes",
			duration:    10,
		},
		{
			title:       "Collections and Threads",
			description: "Organizing research into collections and continuing long-running threads.",
			videoURL:    "https://www.youtube.com/watch?v=collections",
			duration:    11,
		},
		{
			title:       "Perplexity Pro in Practice",
			description: "Pro search, model selection and file analysis. Finish the course to activate your Pro promo code.",
			videoURL:    "https://www.youtube.com/watch?v=pro-practice",
			duration:    14,
			quiz: &seedQuiz{
				title: "Course final",
				questions: []seedQuestion{
					{
						text:    "Where do you activate your Perplexity Pro promo code?",
						qType:   shared.QuestionTypeSingle,
						options: []string{"On the Perplexity Pro page of this platform", "By emailing support", "It activates automatically"},
						correct: []int{0},
					},
				},
			},
		},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, item := range course {
			lesson := model.Lesson{
				ID:              uuid.NewString(),
				Title:           item.title,
				Description:     item.description,
				VideoURL:        item.videoURL,
				VideoType:       shared.VideoTypeYoutube,
				OrderIndex:      i + 1,
				Status:          shared.LessonStatusPublished,
				DurationMinutes: item.duration,
			}
			if err := tx.Create(&lesson).Error; err != nil {
				return err
			}

			if item.quiz == nil {
				continue
			}

			quiz := model.Quiz{
				ID:           uuid.NewString(),
				LessonID:     lesson.ID,
				Title:        item.quiz.title,
				PassingScore: 83,
			}
			if err := tx.Create(&quiz).Error; err != nil {
				return err
			}

			for qi, q := range item.quiz.questions {
				question := model.QuizQuestion{
					ID:         uuid.NewString(),
					QuizID:     quiz.ID,
					Text:       q.text,
					Type:       q.qType,
					OrderIndex: qi + 1,
				}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}

				correct := make(map[int]bool, len(q.correct))
				for _, idx := range q.correct {
					correct[idx] = true
				}

				for oi, text := range q.options {
					option := model.QuizOption{
						ID:         uuid.NewString(),
						QuestionID: question.ID,
						Text:       text,
						IsCorrect:  correct[oi],
						OrderIndex: oi + 1,
					}
					if err := tx.Create(&option).Error; err != nil {
						return err
					}
				}
			}
		}

		log.Printf("Seeded %d lessons", len(course))
		return nil
	})
}
