package database_test

import (
	"errors"
	"testing"

	"financeflow/internal/database"
	"financeflow/models"
)

func TestCreateAndGetCategory(t *testing.T) {
	pool := testPool(t)

	category := &models.GoalCategory{
		Name:      "Хобби",
		Icon:      "🎨",
		Color:     "#14B8A6",
		SortOrder: 99,
		IsActive:  true,
	}
	if err := database.CreateCategory(pool, category); err != nil {
		t.Fatalf("ошибка создания категории: %v", err)
	}
	t.Cleanup(func() {
		_ = database.DeleteCategory(pool, category.ID)
	})

	created, err := database.GetCategoryByID(pool, category.ID)
	if err != nil {
		t.Fatalf("ошибка получения категории по ID: %v", err)
	}
	if created.Name != category.Name || created.Icon != category.Icon || created.Color != category.Color {
		t.Errorf("данные категории не совпадают: получили %+v, хотели %+v", created, category)
	}
	if created.SortOrder != 99 || !created.IsActive {
		t.Errorf("порядок и активность категории не сохранились: %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("дата создания категории не заполнена")
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	pool := testPool(t)

	category := &models.GoalCategory{Icon: "❓", Color: "#000000"}
	if err := database.CreateCategory(pool, category); !database.IsValidationError(err) {
		t.Errorf("ожидали ошибку валидации названия, получили %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	pool := testPool(t)

	category := &models.GoalCategory{Name: "Временная", Icon: "🗑", Color: "#777777", SortOrder: 100, IsActive: true}
	if err := database.CreateCategory(pool, category); err != nil {
		t.Fatalf("ошибка создания категории: %v", err)
	}

	if err := database.DeleteCategory(pool, category.ID); err != nil {
		t.Fatalf("ошибка удаления категории: %v", err)
	}
	if _, err := database.GetCategoryByID(pool, category.ID); !errors.Is(err, database.ErrCategoryNotFound) {
		t.Errorf("категория должна быть удалена, получили %v", err)
	}

	if err := database.DeleteCategory(pool, 999999); !errors.Is(err, database.ErrCategoryNotFound) {
		t.Errorf("ожидали ErrCategoryNotFound, получили %v", err)
	}
}
