package postgres

import (
	userDatamodel "github.com/tourismcms/tourism-cms/internal/core/datamodel/user"
	"github.com/tourismcms/tourism-cms/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}
