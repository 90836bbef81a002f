package profiles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quanmat/fasalmitra-backend/pkg/db/models"
	"github.com/quanmat/fasalmitra-backend/pkg/enums"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
)

type stubUserReader struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserReader) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newProfilesService(t *testing.T, users *stubUserReader) (Service, Repository) {
	t.Helper()
	repo := NewRepository(setupProfilesTestDB(t))
	svc, err := NewService(ServiceParams{UserRepo: users, ProfileRepo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestGetOwn_LazilyProvisions(t *testing.T) {
	userID := uuid.New()
	users := &stubUserReader{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, FirstName: "Meera", LastName: "Patel", Role: enums.UserRoleFarmer},
	}}
	svc, repo := newProfilesService(t, users)

	dto, err := svc.GetOwn(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Meera Patel", dto.Name)
	assert.Equal(t, enums.UserRoleFarmer, dto.Role)

	_, err = repo.GetFarmer(context.Background(), userID)
	assert.NoError(t, err, "profile row should exist after first read")
}

func TestUpdateOwn_FarmerFields(t *testing.T) {
	userID := uuid.New()
	users := &stubUserReader{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, FirstName: "Meera", Role: enums.UserRoleFarmer},
	}}
	svc, _ := newProfilesService(t, users)

	bio := "Third-generation paddy farmer."
	dto, err := svc.UpdateOwn(context.Background(), userID, UpdateProfileDTO{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, dto.Bio)

	got, err := svc.GetOwn(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
}

func TestUpdateOwn_CompanyIgnoresFarmerFields(t *testing.T) {
	userID := uuid.New()
	users := &stubUserReader{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, FirstName: "Agri", Role: enums.UserRoleCompany},
	}}
	svc, _ := newProfilesService(t, users)

	bio := "ignored"
	name := "AgriCorp Ltd"
	dto, err := svc.UpdateOwn(context.Background(), userID, UpdateProfileDTO{Bio: &bio, CompanyName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, dto.CompanyName)
	assert.Empty(t, dto.Bio)
}

func TestUpdateOwn_AdminForbidden(t *testing.T) {
	userID := uuid.New()
	users := &stubUserReader{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Role: enums.UserRoleAdmin},
	}}
	svc, _ := newProfilesService(t, users)

	_, err := svc.UpdateOwn(context.Background(), userID, UpdateProfileDTO{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestGetPublic_UnknownUser(t *testing.T) {
	svc, _ := newProfilesService(t, &stubUserReader{users: map[uuid.UUID]*models.User{}})

	_, err := svc.GetPublic(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
