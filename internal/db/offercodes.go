package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/models"
)

// OfferCodeRepository provides offer-code database operations
type OfferCodeRepository struct {
	*Repository
}

// NewOfferCodeRepository creates a new offer code repository
func NewOfferCodeRepository(repo *Repository) *OfferCodeRepository {
	return &OfferCodeRepository{Repository: repo}
}

// GetByID retrieves an offer code by ID
func (r *OfferCodeRepository) GetByID(ctx context.Context, id int64) (*models.OfferCode, error) {
	var code models.OfferCode
	if err := r.db.WithContext(ctx).First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetBySellerAndCode retrieves a seller's code by its normalized string
func (r *OfferCodeRepository) GetBySellerAndCode(ctx context.Context, sellerID int64, code string) (*models.OfferCode, error) {
	var offerCode models.OfferCode
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND code = ?", sellerID, code).
		First(&offerCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offerCode, nil
}

// Create creates a new offer code
func (r *OfferCodeRepository) Create(ctx context.Context, code *models.OfferCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// ListBySeller returns all of a seller's codes, newest first
func (r *OfferCodeRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*models.OfferCode, error) {
	var codes []*models.OfferCode
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// Deactivate soft-deletes a code, preserving redemption history
func (r *OfferCodeRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.OfferCode{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// SellerRequestRepository provides seller-request database operations
type SellerRequestRepository struct {
	*Repository
}

// NewSellerRequestRepository creates a new seller request repository
func NewSellerRequestRepository(repo *Repository) *SellerRequestRepository {
	return &SellerRequestRepository{Repository: repo}
}

// HasPending reports whether the user already has a pending request
func (r *SellerRequestRepository) HasPending(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SellerRequest{}).
		Where("user_id = ? AND status = ?", userID, models.RequestPending).
		Count(&count).Error
	return count > 0, err
}

// Create creates a new seller request
func (r *SellerRequestRepository) Create(ctx context.Context, request *models.SellerRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID retrieves a seller request by ID
func (r *SellerRequestRepository) GetByID(ctx context.Context, id int64) (*models.SellerRequest, error) {
	var request models.SellerRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// Review resolves a pending request and, on approval, grants the seller
// role in the same transaction
func (r *SellerRequestRepository) Review(ctx context.Context, requestID int64, approve bool) error {
	status := models.RequestRejected
	if approve {
		status = models.RequestApproved
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.SellerRequest
		if err := tx.Where("id = ? AND status = ?", requestID, models.RequestPending).
			First(&request).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.SellerRequest{}).
			Where("id = ?", requestID).
			Updates(map[string]interface{}{
				"status":      status,
				"reviewed_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		if !approve {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", request.UserID, models.RoleUser).
			Update("role", models.RoleSeller).Error
	})
}
