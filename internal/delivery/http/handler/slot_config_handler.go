package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/usecase"
	"clinic-scheduling-service/pkg/response"
	"clinic-scheduling-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SlotConfigHandler struct {
	slotConfigUsecase usecase.SlotConfigUsecase
	validator         *validator.CustomValidator
}

func NewSlotConfigHandler(slotConfigUsecase usecase.SlotConfigUsecase, validator *validator.CustomValidator) *SlotConfigHandler {
	return &SlotConfigHandler{
		slotConfigUsecase: slotConfigUsecase,
		validator:         validator,
	}
}

func (h *SlotConfigHandler) GetClinicConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	config, err := h.slotConfigUsecase.GetClinicConfig(r.Context(), tenantID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get clinic slot config")
		return
	}

	response.Success(w, http.StatusOK, "Clinic slot config retrieved successfully", config)
}

func (h *SlotConfigHandler) UpsertClinicConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.UpsertClinicSlotConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	config, err := h.slotConfigUsecase.UpsertClinicConfig(r.Context(), tenantID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to save clinic slot config")
		return
	}

	response.Success(w, http.StatusOK, "Clinic slot config saved successfully", config)
}

func (h *SlotConfigHandler) GetDoctorConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	config, err := h.slotConfigUsecase.GetDoctorConfig(r.Context(), tenantID, doctorID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctor slot config")
		return
	}

	response.Success(w, http.StatusOK, "Doctor slot config retrieved successfully", config)
}

func (h *SlotConfigHandler) UpsertDoctorConfig(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	var req dto.UpsertDoctorSlotConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	config, err := h.slotConfigUsecase.UpsertDoctorConfig(r.Context(), tenantID, doctorID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to save doctor slot config")
		return
	}

	response.Success(w, http.StatusOK, "Doctor slot config saved successfully", config)
}

func (h *SlotConfigHandler) ListDateOverrides(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := &dto.DateOverrideFilterRequest{
		DoctorID: query.Get("doctor_id"),
		From:     query.Get("from"),
		To:       query.Get("to"),
	}

	overrides, err := h.slotConfigUsecase.ListDateOverrides(r.Context(), tenantID, filter)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get date overrides")
		return
	}

	response.Success(w, http.StatusOK, "Date overrides retrieved successfully", overrides)
}

func (h *SlotConfigHandler) UpsertDateOverride(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.UpsertDateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	override, err := h.slotConfigUsecase.UpsertDateOverride(r.Context(), tenantID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to save date override")
		return
	}

	response.Success(w, http.StatusOK, "Date override saved successfully", override)
}

func (h *SlotConfigHandler) DeleteDateOverride(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	overrideID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid date override ID", nil)
		return
	}

	if err := h.slotConfigUsecase.DeleteDateOverride(r.Context(), tenantID, overrideID); err != nil {
		writeUsecaseError(w, err, "Failed to delete date override")
		return
	}

	response.Success(w, http.StatusOK, "Date override deleted successfully", nil)
}
