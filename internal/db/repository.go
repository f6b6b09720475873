package db

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/flocksocial/flock/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RoleRepository provides role-related database operations
type RoleRepository struct {
	*Repository
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(repo *Repository) *RoleRepository {
	return &RoleRepository{Repository: repo}
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// GetByName retrieves a role by name
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// GetDefault retrieves the role flagged as default for new users
func (r *RoleRepository) GetDefault(ctx context.Context) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// List retrieves all roles ordered by name
func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Seed creates or re-establishes the well-known roles and their permission
// grants. Safe to run any number of times: re-running yields the same end
// state. The whole pass runs in one transaction so a failure mid-seed leaves
// no role reset without its grants.
func (r *RoleRepository) Seed(ctx context.Context) error {
	names := make([]string, 0, len(models.SeedPermissions))
	for name := range models.SeedPermissions {
		names = append(names, name)
	}
	sort.Strings(names)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var role models.Role
			err := tx.Where("name = ?", name).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = models.Role{Name: name}
			} else if err != nil {
				return err
			}

			role.ResetPermissions()
			for _, p := range models.SeedPermissions[name] {
				role.AddPermission(p)
			}
			role.Default = name == models.RoleNameUser

			if err := tx.Save(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// Create persists a new user. When no role is pre-assigned the user gets the
// Administrator role if its email matches adminEmail, otherwise the default
// role. Roles must be seeded before the first user is created.
func (r *UserRepository) Create(ctx context.Context, user *models.User, adminEmail string) error {
	roleRepo := NewRoleRepository(r.Repository)

	if user.RoleID == 0 {
		var role *models.Role
		var err error
		if adminEmail != "" && user.Email == adminEmail {
			role, err = roleRepo.GetByName(ctx, models.RoleNameAdministrator)
			if err != nil {
				return err
			}
		}
		if role == nil {
			role, err = roleRepo.GetDefault(ctx)
			if err != nil {
				return err
			}
		}
		if role == nil {
			return models.ErrNoDefaultRole
		}
		user.RoleID = role.ID
		user.Role = role
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Omit("Role").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by ID with its role preloaded
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username with its role preloaded
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email with its role preloaded
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Role").Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicate
		}
		return err
	}
	return nil
}

// Delete removes a user and cascades to its social edges: follow edges in
// both directions and like edges are removed in the same transaction.
// Authored posts and comments survive with a detached author.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Comment{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
