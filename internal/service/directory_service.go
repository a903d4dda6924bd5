package service

import (
	"context"
	"fmt"

	"github.com/VZENNN/hrvenomdashboard/internal/config"
	"github.com/VZENNN/hrvenomdashboard/internal/errs"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// EmployeeProfile is the identity context the engine needs from the HR core:
// department and position drive technical criterion resolution.
type EmployeeProfile struct {
	ID           uuid.UUID
	Name         string
	Email        string
	DepartmentID uuid.UUID
	Position     string
	Role         string
}

type DirectoryServiceInterface interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*EmployeeProfile, error)
}

// DirectoryService reads employee identity from the HR core users API. The
// engine never re-derives identity; it trusts what the directory returns.
type DirectoryService struct {
	client  *resty.Client
	baseURL string
}

func NewDirectoryService() *DirectoryService {
	cfg := config.LoadDirectoryConfig()
	client := resty.New().
		SetHeader("Authorization", "Bearer "+cfg.APIToken).
		SetHeader("Accept", "application/json")
	return &DirectoryService{client: client, baseURL: cfg.BaseURL}
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id uuid.UUID) (*EmployeeProfile, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/api/users/%s", s.baseURL, id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, errs.ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode())
	}

	body := resp.String()
	rawID := gjson.Get(body, "data.id").String()
	employeeID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("directory returned malformed employee id %q: %w", rawID, err)
	}

	profile := &EmployeeProfile{
		ID:       employeeID,
		Name:     gjson.Get(body, "data.name").String(),
		Email:    gjson.Get(body, "data.email").String(),
		Position: gjson.Get(body, "data.position").String(),
		Role:     gjson.Get(body, "data.role").String(),
	}
	if dept := gjson.Get(body, "data.department_id").String(); dept != "" {
		deptID, err := uuid.Parse(dept)
		if err != nil {
			return nil, fmt.Errorf("directory returned malformed department id %q: %w", dept, err)
		}
		profile.DepartmentID = deptID
	}
	return profile, nil
}
