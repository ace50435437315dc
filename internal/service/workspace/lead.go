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

type leadService struct {
	leadRepo repositories.LeadRepository
	logger   *slog.Logger
}

func NewLeadService(leadRepo repositories.LeadRepository, logger *slog.Logger) services.LeadService {
	return &leadService{leadRepo: leadRepo, logger: logger}
}

func (s *leadService) CreateLead(ctx context.Context, req *services.CreateLeadRequest) (*models.Lead, error) {
	name, err := fields.Text(req.Name, config.MaxProjectNameLength, "name is required")
	if err != nil {
		return nil, err
	}

	lead := &models.Lead{Name: name}

	if lead.Email, err = fields.OptionalEmail(req.Email); err != nil {
		return nil, err
	}
	if lead.Phone, err = fields.OptionalText(req.Phone, config.MaxPhoneLength, "Invalid phone"); err != nil {
		return nil, err
	}
	if lead.Status, err = fields.Enum(req.Status, models.LeadNew, models.LeadStatuses, "Invalid status"); err != nil {
		return nil, err
	}
	if lead.Notes, err = fields.OptionalText(req.Notes, config.MaxDescriptionLength, "Invalid notes"); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.logger.Info("lead created",
		"id", lead.ID,
		"status", lead.Status,
	)

	return lead, nil
}

func (s *leadService) GetLead(ctx context.Context, id int64) (*models.Lead, error) {
	return s.leadRepo.GetByID(ctx, id)
}

func (s *leadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	return s.leadRepo.List(ctx)
}

func (s *leadService) UpdateLead(ctx context.Context, id int64, req *services.UpdateLeadRequest) (*models.Lead, error) {
	patch := &models.LeadPatch{}
	var err error

	if patch.Name, err = fields.PatchRequiredText(req.Name, config.MaxProjectNameLength, "Invalid name"); err != nil {
		return nil, err
	}
	if patch.SetEmail, patch.Email, err = fields.PatchEmail(req.Email); err != nil {
		return nil, err
	}
	if patch.SetPhone, patch.Phone, err = fields.PatchText(req.Phone, config.MaxPhoneLength, "Invalid phone"); err != nil {
		return nil, err
	}
	if patch.Status, err = fields.PatchEnum(req.Status, models.LeadStatuses, "Invalid status"); err != nil {
		return nil, err
	}
	if patch.SetNotes, patch.Notes, err = fields.PatchText(req.Notes, config.MaxDescriptionLength, "Invalid notes"); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, errNoChanges
	}

	lead, err := s.leadRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead updated",
		"id", lead.ID,
		"status", lead.Status,
	)

	return lead, nil
}

func (s *leadService) DeleteLead(ctx context.Context, id int64) error {
	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("lead deleted", "id", id)
	return nil
}
