package workspace

import (
	"context"
	"log/slog"

	"allmanager/internal/config"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
	"allmanager/internal/domain/services"
	"allmanager/internal/service/fields"
)

type requirementService struct {
	requirementRepo repositories.RequirementRepository
	logger          *slog.Logger
}

func NewRequirementService(requirementRepo repositories.RequirementRepository, logger *slog.Logger) services.RequirementService {
	return &requirementService{requirementRepo: requirementRepo, logger: logger}
}

func (s *requirementService) CreateRequirement(ctx context.Context, req *services.CreateRequirementRequest) (*models.Requirement, error) {
	title, err := fields.Text(req.Title, config.MaxTitleLength, "title is required")
	if err != nil {
		return nil, err
	}
	description, err := fields.OptionalText(req.Description, config.MaxDescriptionLength, "Invalid description")
	if err != nil {
		return nil, err
	}
	status, err := fields.Enum(req.Status, models.RequirementOpen, models.RequirementStatuses, "Invalid status")
	if err != nil {
		return nil, err
	}

	createdBy := req.CreatedBy
	requirement := &models.Requirement{
		Title:       title,
		Description: description,
		Status:      status,
		CreatedBy:   &createdBy,
	}
	if err := s.requirementRepo.Create(ctx, requirement); err != nil {
		return nil, err
	}

	s.logger.Info("requirement created",
		"id", requirement.ID,
		"status", requirement.Status,
		"user_id", createdBy,
	)

	return requirement, nil
}

func (s *requirementService) GetRequirement(ctx context.Context, id int64) (*models.Requirement, error) {
	return s.requirementRepo.GetByID(ctx, id)
}

func (s *requirementService) ListRequirements(ctx context.Context) ([]models.Requirement, error) {
	return s.requirementRepo.List(ctx)
}

func (s *requirementService) UpdateRequirement(ctx context.Context, id int64, req *services.UpdateRequirementRequest) (*models.Requirement, error) {
	patch := &models.RequirementPatch{}
	var err error

	if patch.Title, err = fields.PatchRequiredText(req.Title, config.MaxTitleLength, "Invalid title"); err != nil {
		return nil, err
	}
	if patch.SetDescription, patch.Description, err = fields.PatchText(req.Description, config.MaxDescriptionLength, "Invalid description"); err != nil {
		return nil, err
	}
	if patch.Status, err = fields.PatchEnum(req.Status, models.RequirementStatuses, "Invalid status"); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, errNoChanges
	}

	requirement, err := s.requirementRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("requirement updated",
		"id", requirement.ID,
		"status", requirement.Status,
	)

	return requirement, nil
}

func (s *requirementService) DeleteRequirement(ctx context.Context, id int64) error {
	if err := s.requirementRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("requirement deleted", "id", id)
	return nil
}
