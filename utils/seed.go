package utils

import (
	"context"
	"log"
	"time"

	"hanbridge/db"
	"hanbridge/models"

	"go.mongodb.org/mongo-driver/bson"
)

// SeedSampleProblems populates the problems collection with the built-in
// starter set so a fresh install has something to practice with.
func SeedSampleProblems() {
	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Skip if problems collection already has data
	count, err := db.ProblemsCollection.CountDocuments(dbCtx, bson.M{})
	if err != nil || count > 0 {
		return
	}

	sampleProblems := []models.Problem{
		{
			ID:         "1",
			Korean:     "안녕하세요, 오늘 날씨가 정말 좋네요.",
			Chinese:    "你好，今天天气真好。",
			Difficulty: models.DifficultyLow,
			Field:      "일상",
		},
		{
			ID:         "2",
			Korean:     "저는 한국어를 배우고 있는 중국 학생입니다.",
			Chinese:    "我是一名正在学习韩语的中国学生。",
			Difficulty: models.DifficultyMid,
			Field:      "학습",
		},
		{
			ID:         "3",
			Korean:     "이번 주말에 친구들과 함께 영화를 보러 갈 예정입니다.",
			Chinese:    "这个周末我计划和朋友们一起去看电影。",
			Difficulty: models.DifficultyMid,
			Field:      "일상",
		},
		{
			ID:         "4",
			Korean:     "경제 발전과 환경 보호 사이의 균형을 찾는 것이 중요합니다.",
			Chinese:    "在经济发展和环境保护之间找到平衡是很重要的。",
			Difficulty: models.DifficultyHigh,
			Field:      "사회",
		},
		{
			ID:         "5",
			Korean:     "새로운 기술이 우리의 일상생활을 어떻게 변화시키고 있는지 관찰해보세요.",
			Chinese:    "观察新技术如何改变我们的日常生活。",
			Difficulty: models.DifficultyHigh,
			Field:      "기술",
		},
	}

	if err := db.InsertProblems(dbCtx, sampleProblems); err != nil {
		log.Printf("Failed to seed sample problems: %v", err)
		return
	}

	log.Println("Seeded sample problems")
}
