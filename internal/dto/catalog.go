package dto

import "github.com/yukikurage/field-report-api/internal/models"

type ClientDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type WorkOrderDTO struct {
	ID                 uint64   `json:"id"`
	ClientID           uint64   `json:"clientId"`
	Code               string   `json:"code"`
	Description        string   `json:"description"`
	AvailableWorkTypes []string `json:"availableWorkTypes"`
	AvailableMaterials []string `json:"availableMaterials"`
	IsActive           bool     `json:"isActive"`
}

// AttendanceEntryDTO is an absence recorded in the ledger
type AttendanceEntryDTO struct {
	UserID       uint64 `json:"userId"`
	Date         string `json:"date"`
	AbsenceType  string `json:"absenceType"`
	Notes        string `json:"notes"`
	RecordedByID uint64 `json:"recordedById"`
}

func ToClientDTO(c models.Client) ClientDTO {
	return ClientDTO{ID: c.ID, Name: c.Name, IsActive: c.IsActive}
}

func ToClientDTOs(clients []models.Client) []ClientDTO {
	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = ToClientDTO(c)
	}
	return dtos
}

func ToWorkOrderDTO(o models.WorkOrder) WorkOrderDTO {
	return WorkOrderDTO{
		ID:                 o.ID,
		ClientID:           o.ClientID,
		Code:               o.Code,
		Description:        o.Description,
		AvailableWorkTypes: nonNil(o.AvailableWorkTypes),
		AvailableMaterials: nonNil(o.AvailableMaterials),
		IsActive:           o.IsActive,
	}
}

func ToWorkOrderDTOs(orders []models.WorkOrder) []WorkOrderDTO {
	dtos := make([]WorkOrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = ToWorkOrderDTO(o)
	}
	return dtos
}

func ToAttendanceEntryDTO(e models.AttendanceEntry) AttendanceEntryDTO {
	return AttendanceEntryDTO{
		UserID:       e.UserID,
		Date:         e.Date,
		AbsenceType:  e.AbsenceType,
		Notes:        e.Notes,
		RecordedByID: e.RecordedByID,
	}
}

func ToAttendanceEntryDTOs(entries []models.AttendanceEntry) []AttendanceEntryDTO {
	dtos := make([]AttendanceEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = ToAttendanceEntryDTO(e)
	}
	return dtos
}
