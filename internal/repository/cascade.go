package repository

import (
	"zenda_backend/internal/model"

	"gorm.io/gorm"
)

// 级联删除辅助函数，均在调用方事务内执行

func deleteQuizzesTx(tx *gorm.DB, quizIDs []uint) error {
	if len(quizIDs) == 0 {
		return nil
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.UserQuizAnswer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.QuizResult{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.LessonQuizQuestion{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", quizIDs).Delete(&model.LessonQuiz{}).Error
}

func deleteExamsTx(tx *gorm.DB, examIDs []uint) error {
	if len(examIDs) == 0 {
		return nil
	}
	if err := tx.Where("exam_id IN ?", examIDs).Delete(&model.UserExamAnswer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("exam_id IN ?", examIDs).Delete(&model.ExamResult{}).Error; err != nil {
		return err
	}
	if err := tx.Where("exam_id IN ?", examIDs).Delete(&model.FinalExamQuestion{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", examIDs).Delete(&model.FinalExam{}).Error
}

func deleteLessonsTx(tx *gorm.DB, lessonIDs []uint) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	var quizIDs []uint
	if err := tx.Unscoped().Model(&model.LessonQuiz{}).Where("lesson_id IN ?", lessonIDs).Pluck("id", &quizIDs).Error; err != nil {
		return err
	}
	if err := deleteQuizzesTx(tx, quizIDs); err != nil {
		return err
	}
	if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.Progress{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", lessonIDs).Delete(&model.Lesson{}).Error
}
