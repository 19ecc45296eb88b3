package staff

import (
	"context"

	"github.com/lengolf/lengolf-backend-go/internal/domain/staff"
)

type StaffServiceImpl struct {
	staffRepo staff.StaffRepository
}

func NewStaffService(staffRepo staff.StaffRepository) staff.StaffService {
	return &StaffServiceImpl{staffRepo: staffRepo}
}

// GetStaff implements staff.StaffService.
func (s *StaffServiceImpl) GetStaff(ctx context.Context, id string) (staff.StaffResponse, error) {
	member, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return mapToStaffResponse(member), nil
}

// ListActiveStaff implements staff.StaffService.
func (s *StaffServiceImpl) ListActiveStaff(ctx context.Context) ([]staff.StaffResponse, error) {
	members, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, mapToStaffResponse(m))
	}
	return responses, nil
}

func mapToStaffResponse(m staff.Staff) staff.StaffResponse {
	return staff.StaffResponse{
		ID:       m.ID,
		Name:     m.Name,
		Code:     m.Code,
		IsActive: m.IsActive,
	}
}
