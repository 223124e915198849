package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
)

type RoleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRoleService(db *sql.DB, m repomanager.RepositoryManager) *RoleService {
	return &RoleService{db: db, repomanager: m}
}

func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.repomanager.Roles(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}
	return roles, nil
}
