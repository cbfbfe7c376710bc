package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic-scheduling-service/internal/converter"
	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/delivery/http/middleware"
	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/domain/repository"
	"clinic-scheduling-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrConcurrentUpdate = fmt.Errorf("%w: appointment changed concurrently, retry the request", ErrConflict)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, tenantID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointments(ctx context.Context, tenantID uuid.UUID, req *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error)
	GetAppointmentByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateAppointmentStatus(ctx context.Context, tenantID, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, tenantID, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAvailableSlots(ctx context.Context, tenantID, doctorID uuid.UUID, date string, channel string) (*dto.AvailableSlotListResponse, error)
	ReorderQueue(ctx context.Context, tenantID, id uuid.UUID, steps int) error
}

// AppointmentRepositories groups the persistence ports the booking engine reads and writes.
type AppointmentRepositories struct {
	Appointment  repository.AppointmentRepository
	Patient      repository.PatientRepository
	QueueLock    repository.QueueLockRepository
	Doctor       repository.DoctorRepository
	ClinicConfig repository.ClinicSlotConfigRepository
	DoctorConfig repository.DoctorSlotConfigRepository
	Override     repository.DateOverrideRepository
}

type appointmentUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	tx         *TxRunner
	repos      AppointmentRepositories
	resolver   service.SlotConfigResolver
	calculator service.AvailabilityCalculator
	audit      service.AuditService
	notifier   service.AppointmentNotifier
	now        func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	tx *TxRunner,
	repos AppointmentRepositories,
	resolver service.SlotConfigResolver,
	calculator service.AvailabilityCalculator,
	audit service.AuditService,
	notifier service.AppointmentNotifier,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:         db,
		log:        log,
		tx:         tx,
		repos:      repos,
		resolver:   resolver,
		calculator: calculator,
		audit:      audit,
		notifier:   notifier,
		now:        time.Now,
	}
}

// bookingInput is a CreateAppointmentRequest after field validation.
type bookingInput struct {
	doctorID    uuid.UUID
	date        datatypes.Date
	slot        string
	channel     entity.Channel
	origin      entity.Origin
	isEmergency bool
}

// CreateAppointment books a patient into a doctor's slot.
//
// Flow, inside one transaction holding the doctor-day lock:
// 1. Resolve or create the patient identity
// 2. Unless emergency, check the slot exists and has total and online capacity left
// 3. Compact the day queue and append the new appointment at the end
// 4. Insert the appointment and its audit entry
// Listeners are notified only after commit.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, tenantID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	input, err := parseBooking(req)
	if err != nil {
		return nil, err
	}

	var appointment *entity.Appointment
	var doctorName string
	err = u.tx.Run(ctx, func(tx *gorm.DB) error {
		if err := u.repos.QueueLock.Lock(tx, tenantID, input.doctorID, input.date); err != nil {
			return err
		}

		patient, err := u.resolvePatient(tx, tenantID, req)
		if err != nil {
			return err
		}

		if !input.isEmergency {
			if err := u.checkCapacity(tx, tenantID, input.doctorID, input.date, input.slot, input.channel, nil); err != nil {
				return err
			}
		}

		queue, err := u.repos.Appointment.FindActiveQueue(tx, tenantID, input.doctorID, input.date)
		if err != nil {
			return err
		}
		if err := u.persistQueue(tx, queue); err != nil {
			return err
		}

		appointment = &entity.Appointment{
			TenantID:    tenantID,
			PatientID:   patient.ID,
			DoctorID:    input.doctorID,
			Date:        input.date,
			Slot:        input.slot,
			Status:      entity.AppointmentStatusScheduled,
			Channel:     input.channel,
			Origin:      input.origin,
			IsEmergency: input.isEmergency,
			QueueOrder:  len(queue) + 1,
		}
		if err := u.repos.Appointment.Create(tx, appointment); err != nil {
			return err
		}
		appointment.Patient = patient

		if err := u.audit.LogCreate(ctx, tx, u.auditEntry(ctx, tenantID, entity.AuditActionAppointmentCreate, appointment.ID), appointmentSnapshot(appointment)); err != nil {
			return err
		}

		doctorName = u.doctorName(tx, tenantID, input.doctorID)
		return nil
	})
	if err != nil {
		u.logFailure("create appointment", err)
		return nil, err
	}

	u.log.Infof("Appointment %s booked for doctor %s on %s at %s (queue %d)",
		appointment.ID, appointment.DoctorID, entity.FormatDate(appointment.Date), appointment.Slot, appointment.QueueOrder)
	u.notify(ctx, service.AppointmentActionCreate, appointment, doctorName)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointments(ctx context.Context, tenantID uuid.UUID, req *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	filter, err := parseAppointmentFilter(req)
	if err != nil {
		return nil, err
	}

	appointments, err := u.repos.Appointment.FindAll(u.db.WithContext(ctx), tenantID, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointmentByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.repos.Appointment.FindByID(u.db.WithContext(ctx), tenantID, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

// UpdateAppointmentStatus applies a lifecycle transition. An appointment that leaves
// the active queue is removed from the numbering of its day.
func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, tenantID, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(strings.TrimSpace(req.Status))
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var appointment *entity.Appointment
	var doctorName string
	changed := false
	err := u.tx.Run(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.lockAppointment(tx, tenantID, id)
		if err != nil {
			return err
		}

		before := appointmentSnapshot(appointment)
		wasActive := appointment.IsActive()
		previous := appointment.Status
		if err := appointment.TransitionTo(status, u.now()); err != nil {
			if errors.Is(err, entity.ErrInvalidTransition) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, status)
			}
			return err
		}
		if previous == appointment.Status {
			return nil
		}
		changed = true

		if err := u.repos.Appointment.Update(tx, appointment); err != nil {
			return err
		}

		if wasActive && !appointment.IsActive() {
			queue, err := u.repos.Appointment.FindActiveQueue(tx, tenantID, appointment.DoctorID, appointment.Date)
			if err != nil {
				return err
			}
			if err := u.persistQueue(tx, queue); err != nil {
				return err
			}
		}

		if err := u.audit.LogUpdate(ctx, tx, u.auditEntry(ctx, tenantID, entity.AuditActionAppointmentStatus, appointment.ID), before, appointmentSnapshot(appointment)); err != nil {
			return err
		}

		doctorName = u.doctorName(tx, tenantID, appointment.DoctorID)
		return nil
	})
	if err != nil {
		u.logFailure("update appointment status", err)
		return nil, err
	}

	if changed {
		u.log.Infof("Appointment %s moved to %s", appointment.ID, appointment.Status)
		u.notify(ctx, service.AppointmentActionUpdate, appointment, doctorName)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// UpdateAppointment changes date, slot, channel, origin or the emergency flag. A new
// placement is checked against availability without counting the appointment itself
// and puts it at the end of the destination day's queue.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, tenantID, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var appointment *entity.Appointment
	var doctorName string
	err := u.tx.Run(ctx, func(tx *gorm.DB) error {
		current, err := u.repos.Appointment.FindByID(tx, tenantID, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrAppointmentNotFound
		}

		target, err := applyAppointmentChanges(current, req)
		if err != nil {
			return err
		}

		days := []datatypes.Date{current.Date}
		if !entity.SameDate(current.Date, target.Date) {
			days = append(days, target.Date)
		}
		// Lock in date order so two updates moving between the same days cannot deadlock.
		sort.Slice(days, func(i, j int) bool { return entity.FormatDate(days[i]) < entity.FormatDate(days[j]) })
		for _, day := range days {
			if err := u.repos.QueueLock.Lock(tx, tenantID, current.DoctorID, day); err != nil {
				return err
			}
		}

		appointment, err = u.repos.Appointment.FindByID(tx, tenantID, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}
		if !entity.SameDate(appointment.Date, current.Date) {
			return ErrConcurrentUpdate
		}
		if !appointment.IsActive() {
			return ErrAppointmentClosed
		}

		before := appointmentSnapshot(appointment)
		moved := !entity.SameDate(appointment.Date, target.Date) || appointment.Slot != target.Slot
		needsCheck := !target.IsEmergency && (moved ||
			(appointment.Channel != target.Channel && target.Channel == entity.ChannelOnline) ||
			(appointment.IsEmergency && !target.IsEmergency))

		if needsCheck {
			if err := u.checkCapacity(tx, tenantID, appointment.DoctorID, target.Date, target.Slot, target.Channel, &appointment.ID); err != nil {
				return err
			}
		}

		oldDate := appointment.Date
		appointment.Date = target.Date
		appointment.Slot = target.Slot
		appointment.Channel = target.Channel
		appointment.Origin = target.Origin
		appointment.IsEmergency = target.IsEmergency

		if moved {
			queue, err := u.repos.Appointment.FindActiveQueue(tx, tenantID, appointment.DoctorID, appointment.Date)
			if err != nil {
				return err
			}
			others := withoutAppointment(queue, appointment.ID)
			if err := u.persistQueue(tx, others); err != nil {
				return err
			}
			appointment.QueueOrder = len(others) + 1
		}

		if err := u.repos.Appointment.Update(tx, appointment); err != nil {
			return err
		}

		if !entity.SameDate(oldDate, appointment.Date) {
			queue, err := u.repos.Appointment.FindActiveQueue(tx, tenantID, appointment.DoctorID, oldDate)
			if err != nil {
				return err
			}
			if err := u.persistQueue(tx, queue); err != nil {
				return err
			}
		}

		if err := u.audit.LogUpdate(ctx, tx, u.auditEntry(ctx, tenantID, entity.AuditActionAppointmentUpdate, appointment.ID), before, appointmentSnapshot(appointment)); err != nil {
			return err
		}

		doctorName = u.doctorName(tx, tenantID, appointment.DoctorID)
		return nil
	})
	if err != nil {
		u.logFailure("update appointment", err)
		return nil, err
	}

	u.log.Infof("Appointment %s updated: %s at %s (queue %d)",
		appointment.ID, entity.FormatDate(appointment.Date), appointment.Slot, appointment.QueueOrder)
	u.notify(ctx, service.AppointmentActionUpdate, appointment, doctorName)

	return converter.AppointmentToResponse(appointment), nil
}

// GetAvailableSlots reports the remaining capacity of every slot the doctor has on date.
// With channel=online the online quota also limits the result.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, tenantID, doctorID uuid.UUID, date string, channel string) (*dto.AvailableSlotListResponse, error) {
	if doctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	if strings.TrimSpace(date) == "" {
		return nil, ErrDateRequired
	}
	day, err := entity.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var channelFilter *entity.Channel
	if channel = strings.TrimSpace(channel); channel != "" {
		c := entity.Channel(strings.ToLower(channel))
		if !c.IsValid() {
			return nil, ErrInvalidChannel
		}
		channelFilter = &c
	}

	db := u.db.WithContext(ctx)
	resolved, err := u.resolver.Resolve(u.slotReader(db), tenantID, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to resolve slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	booked, err := u.repos.Appointment.FindBookedByDoctorDate(db, tenantID, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	response := &dto.AvailableSlotListResponse{
		DoctorID: doctorID,
		Date:     entity.FormatDate(day),
		Source:   resolved.Source,
		Slots:    converter.AvailabilityToResponses(u.calculator.Compute(resolved, booked, channelFilter)),
	}
	if channelFilter != nil {
		response.Channel = string(*channelFilter)
	}
	return response, nil
}

// ReorderQueue moves an appointment by steps positions within its day's active queue
// and renumbers the queue from 1.
func (u *appointmentUsecase) ReorderQueue(ctx context.Context, tenantID, id uuid.UUID, steps int) error {
	var appointment *entity.Appointment
	var doctorName string
	err := u.tx.Run(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.lockAppointment(tx, tenantID, id)
		if err != nil {
			return err
		}

		queue, err := u.repos.Appointment.FindActiveQueue(tx, tenantID, appointment.DoctorID, appointment.Date)
		if err != nil {
			return err
		}
		index := service.QueueIndex(queue, id)
		if index < 0 {
			return ErrNotEligibleToReorder
		}
		before := queue[index].QueueOrder

		reordered := service.MoveInQueue(queue, index, steps)
		if err := u.persistQueue(tx, reordered); err != nil {
			return err
		}
		appointment.QueueOrder = reordered[service.QueueIndex(reordered, id)].QueueOrder

		if err := u.audit.LogUpdate(ctx, tx, u.auditEntry(ctx, tenantID, entity.AuditActionAppointmentReorder, id),
			map[string]interface{}{"queue_order": before},
			map[string]interface{}{"queue_order": appointment.QueueOrder, "steps": steps},
		); err != nil {
			return err
		}

		doctorName = u.doctorName(tx, tenantID, appointment.DoctorID)
		return nil
	})
	if err != nil {
		u.logFailure("reorder queue", err)
		return err
	}

	u.log.Infof("Appointment %s moved to queue position %d", appointment.ID, appointment.QueueOrder)
	u.notify(ctx, service.AppointmentActionReorder, appointment, doctorName)
	return nil
}

// lockAppointment loads the appointment, takes its doctor-day lock and reloads it so
// the returned state cannot change until the transaction ends.
func (u *appointmentUsecase) lockAppointment(tx *gorm.DB, tenantID, id uuid.UUID) (*entity.Appointment, error) {
	current, err := u.repos.Appointment.FindByID(tx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := u.repos.QueueLock.Lock(tx, tenantID, current.DoctorID, current.Date); err != nil {
		return nil, err
	}

	locked, err := u.repos.Appointment.FindByID(tx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, ErrAppointmentNotFound
	}
	if !entity.SameDate(locked.Date, current.Date) {
		return nil, ErrConcurrentUpdate
	}
	return locked, nil
}

// resolvePatient returns the patient named by the request, creating it when the
// (name, mobile) identity is new. A new name on a known mobile becomes a dependent.
func (u *appointmentUsecase) resolvePatient(tx *gorm.DB, tenantID uuid.UUID, req *dto.CreateAppointmentRequest) (*entity.Patient, error) {
	if req.PatientID != nil && *req.PatientID != uuid.Nil {
		patient, err := u.repos.Patient.FindByID(tx, tenantID, *req.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
		return patient, nil
	}

	name := strings.TrimSpace(req.Name)
	mobile := strings.TrimSpace(req.Mobile)
	demographics := entity.PatientDemographics{
		Email:   strings.TrimSpace(req.Email),
		Age:     req.Age,
		Gender:  strings.TrimSpace(req.Gender),
		Address: strings.TrimSpace(req.Address),
	}

	existing, err := u.repos.Patient.FindByNameAndMobile(tx, tenantID, name, mobile)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		kind := entity.PatientKindPrimary
		holder, err := u.repos.Patient.FindByMobile(tx, tenantID, mobile)
		if err != nil {
			return nil, err
		}
		if holder != nil {
			kind = entity.PatientKindDependent
		}

		patient := &entity.Patient{
			TenantID: tenantID,
			Name:     name,
			Mobile:   mobile,
			Email:    demographics.Email,
			Age:      demographics.Age,
			Gender:   demographics.Gender,
			Address:  demographics.Address,
			Kind:     kind,
		}
		created, err := u.repos.Patient.CreateIfAbsent(tx, patient)
		if err != nil {
			return nil, err
		}
		if created == 1 {
			return patient, nil
		}

		// A concurrent booking registered the same person first.
		existing, err = u.repos.Patient.FindByNameAndMobile(tx, tenantID, name, mobile)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrPatientNotFound
		}
	}

	changes := demographics.Changes(existing)
	if len(changes) > 0 {
		if err := u.repos.Patient.Update(tx, existing.ID, changes); err != nil {
			return nil, err
		}
		return u.repos.Patient.FindByID(tx, tenantID, existing.ID)
	}
	return existing, nil
}

// checkCapacity fails unless slot is one of the doctor's resolved slots on date with
// room left, counting the online quota for online bookings. exclude is left out of
// the counts.
func (u *appointmentUsecase) checkCapacity(tx *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date, slot string, channel entity.Channel, exclude *uuid.UUID) error {
	resolved, err := u.resolver.Resolve(u.slotReader(tx), tenantID, doctorID, date)
	if err != nil {
		return err
	}

	booked, err := u.repos.Appointment.FindBookedByDoctorDate(tx, tenantID, doctorID, date)
	if err != nil {
		return err
	}
	if exclude != nil {
		booked = withoutAppointment(booked, *exclude)
	}

	availability, ok := service.FindSlotAvailability(u.calculator.Compute(resolved, booked, nil), slot)
	if !ok {
		return ErrInvalidSlot
	}
	if availability.Booked >= availability.MaxPatients {
		return ErrSlotFull
	}
	if channel == entity.ChannelOnline && availability.OnlineBooked >= resolved.OnlineQuota {
		return ErrOnlineLimitReached
	}
	return nil
}

// persistQueue renumbers queue 1..N in its current order and writes the rows whose
// position changed.
func (u *appointmentUsecase) persistQueue(tx *gorm.DB, queue []entity.Appointment) error {
	for _, i := range service.RenumberQueue(queue) {
		if err := u.repos.Appointment.UpdateQueueOrder(tx, queue[i].ID, queue[i].QueueOrder); err != nil {
			return err
		}
	}
	return nil
}

func (u *appointmentUsecase) slotReader(db *gorm.DB) service.SlotConfigReader {
	return service.NewRepositorySlotReader(db, u.repos.ClinicConfig, u.repos.DoctorConfig, u.repos.Override)
}

// doctorName is display-only, so a failed lookup is logged and yields "".
func (u *appointmentUsecase) doctorName(tx *gorm.DB, tenantID, doctorID uuid.UUID) string {
	name, err := u.repos.Doctor.GetDisplayName(tx, tenantID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to get display name of doctor %s: %+v", doctorID, err)
		return ""
	}
	return name
}

func (u *appointmentUsecase) auditEntry(ctx context.Context, tenantID uuid.UUID, action string, id uuid.UUID) service.AuditEntry {
	entry := service.AuditEntry{
		TenantID: tenantID,
		Action:   action,
		Entity:   "appointment",
		EntityID: id.String(),
	}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		entry.UserID = &userID
	}
	return entry
}

func (u *appointmentUsecase) notify(ctx context.Context, action service.AppointmentAction, appointment *entity.Appointment, doctorName string) {
	if u.notifier == nil {
		return
	}

	event := service.AppointmentEvent{
		TenantID:      appointment.TenantID,
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		DoctorName:    doctorName,
		Date:          entity.FormatDate(appointment.Date),
		Slot:          appointment.Slot,
		QueueOrder:    appointment.QueueOrder,
		Status:        string(appointment.Status),
		OccurredAt:    u.now(),
	}
	if appointment.Patient != nil {
		event.PatientName = appointment.Patient.Name
	}

	if err := u.notifier.NotifyAppointmentEvent(ctx, action, event); err != nil {
		u.log.Warnf("Failed to notify appointment %s event: %+v", action, err)
	}
}

// logFailure keeps client errors out of the warning log.
func (u *appointmentUsecase) logFailure(op string, err error) {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		u.log.Infof("Rejected %s: %v", op, err)
		return
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
}

func parseBooking(req *dto.CreateAppointmentRequest) (*bookingInput, error) {
	if req.DoctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, ErrDateRequired
	}
	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	slot := strings.TrimSpace(req.Slot)
	if slot == "" {
		if !req.IsEmergency || strings.TrimSpace(req.ManualTime) == "" {
			return nil, ErrSlotRequired
		}
		slot = req.ManualTime
	}
	slot, err = entity.NormalizeClock(slot)
	if err != nil {
		return nil, ErrInvalidTime
	}

	if req.PatientID == nil || *req.PatientID == uuid.Nil {
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Mobile) == "" {
			return nil, ErrPatientRequired
		}
	}

	channel := entity.ChannelOffline
	if req.Channel != "" {
		channel = entity.Channel(strings.ToLower(req.Channel))
		if !channel.IsValid() {
			return nil, ErrInvalidChannel
		}
	}

	origin := entity.OriginWalkIn
	if req.Origin != "" {
		origin = entity.Origin(strings.ToLower(req.Origin))
		if !origin.IsValid() {
			return nil, ErrInvalidOrigin
		}
	}

	return &bookingInput{
		doctorID:    req.DoctorID,
		date:        date,
		slot:        slot,
		channel:     channel,
		origin:      origin,
		isEmergency: req.IsEmergency,
	}, nil
}

// applyAppointmentChanges returns a copy of current with the requested fields applied.
func applyAppointmentChanges(current *entity.Appointment, req *dto.UpdateAppointmentRequest) (*entity.Appointment, error) {
	target := *current

	if req.Date != nil {
		date, err := entity.ParseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		target.Date = date
	}
	if req.Slot != nil {
		slot, err := entity.NormalizeClock(*req.Slot)
		if err != nil {
			return nil, ErrInvalidTime
		}
		target.Slot = slot
	}
	if req.Channel != nil {
		channel := entity.Channel(strings.ToLower(*req.Channel))
		if !channel.IsValid() {
			return nil, ErrInvalidChannel
		}
		target.Channel = channel
	}
	if req.Origin != nil {
		origin := entity.Origin(strings.ToLower(*req.Origin))
		if !origin.IsValid() {
			return nil, ErrInvalidOrigin
		}
		target.Origin = origin
	}
	if req.IsEmergency != nil {
		target.IsEmergency = *req.IsEmergency
	}

	return &target, nil
}

func parseAppointmentFilter(req *dto.AppointmentFilterRequest) (*entity.AppointmentFilter, error) {
	filter := &entity.AppointmentFilter{}
	if req == nil {
		return filter, nil
	}

	if req.DoctorID != "" {
		id, err := uuid.Parse(req.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid doctor_id", ErrValidation)
		}
		filter.DoctorID = &id
	}
	if req.PatientID != "" {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid patient_id", ErrValidation)
		}
		filter.PatientID = &id
	}
	if req.Date != "" {
		date, err := entity.ParseDate(req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.Date = &date
	}
	if req.Status != "" {
		status := entity.AppointmentStatus(req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

func withoutAppointment(appointments []entity.Appointment, id uuid.UUID) []entity.Appointment {
	out := make([]entity.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func appointmentSnapshot(a *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"patient_id":   a.PatientID.String(),
		"doctor_id":    a.DoctorID.String(),
		"date":         entity.FormatDate(a.Date),
		"slot":         a.Slot,
		"status":       string(a.Status),
		"channel":      string(a.Channel),
		"origin":       string(a.Origin),
		"is_emergency": a.IsEmergency,
		"queue_order":  a.QueueOrder,
	}
}
