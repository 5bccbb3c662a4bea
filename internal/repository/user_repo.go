package repository

import (
	"context"

	"gorm.io/gorm"

	"simlab/internal/model"
)

// UserFilter user list filters; empty fields are ignored
type UserFilter struct {
	Role      string
	Status    string
	LabRoomID string
	Search    string
}

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByNimNip(ctx context.Context, nimNip string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error)
}

// userRepo GORM implementation of UserRepository
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return classify(r.db.WithContext(ctx).Omit("LabRoom").Create(user).Error)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("LabRoom").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByNimNip(ctx context.Context, nimNip string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("nim_nip = ?", nimNip).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return classify(r.db.WithContext(ctx).Omit("LabRoom", "created_at", "created_by").Save(user).Error)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return classifyDelete(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.LabRoomID != "" {
		db = db.Where("lab_room_id = ?", filter.LabRoomID)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		db = db.Where("full_name ILIKE ? OR email ILIKE ? OR nim_nip ILIKE ?", p, p, p)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	if err := db.Preload("LabRoom").
		Offset(offset).Limit(limit).
		Order("created_at DESC, id").
		Find(&users).Error; err != nil {
		return nil, 0, classify(err)
	}

	return users, total, nil
}
