package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/cache"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/careplan"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/dedupe"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/visit"
)

// VisitResolver turns the (client, booking) pair on a submission into a
// visit record id. Satisfied by visit.Resolver.
type VisitResolver interface {
	Resolve(ctx context.Context, in visit.ResolveInput) (visitID string, created bool)
}

// Actor identifies the authenticated user a handler acts for.
type Actor struct {
	UserID   string
	BranchID string
	IsAdmin  bool
}

// MetricsRecorder interface for recording report metrics
type MetricsRecorder interface {
	RecordReportSubmission(ctx context.Context, mode string, warnings int)
	RecordReportReview(ctx context.Context, status string)
	RecordNews2Score(ctx context.Context, risk string)
}

type Service struct {
	repo      RepositoryInterface
	visits    visit.RepositoryInterface
	resolver  VisitResolver
	plans     careplan.ServiceInterface
	publisher messaging.PublisherInterface
	cache     cache.Store
	metrics   MetricsRecorder
}

func NewService(
	repo RepositoryInterface,
	visits visit.RepositoryInterface,
	resolver VisitResolver,
	plans careplan.ServiceInterface,
	publisher messaging.PublisherInterface,
	cacheStore cache.Store,
) *Service {
	return &Service{
		repo:      repo,
		visits:    visits,
		resolver:  resolver,
		plans:     plans,
		publisher: publisher,
		cache:     cacheStore,
	}
}

// WithMetrics attaches a metrics recorder. A nil recorder disables
// business metrics.
func (s *Service) WithMetrics(metrics MetricsRecorder) *Service {
	s.metrics = metrics
	return s
}

// Submit is the single commit point of a report form. Validation failures
// block the whole submission; once validation passes, every accumulated
// change is written out and individual row failures downgrade to warnings
// so one bad row cannot lose the rest of the visit's data.
func (s *Service) Submit(ctx context.Context, actor Actor, req SubmitRequest) (*SubmitResult, error) {
	if err := validateSubmission(&req); err != nil {
		return nil, err
	}

	var existing *ServiceReport
	editMode := req.ReportID != ""
	if editMode {
		var err error
		existing, err = s.repo.GetReport(ctx, req.ReportID)
		if err != nil {
			return nil, err
		}
		if existing.Status == StatusApproved {
			return nil, ErrReportApproved
		}
		if req.BookingID == "" {
			req.BookingID = existing.BookingID
		}
		if req.ClientID == "" {
			req.ClientID = existing.ClientID
		}
	}

	resolveIn := visit.ResolveInput{
		ClientID:  req.ClientID,
		BookingID: req.BookingID,
		EditMode:  editMode,
	}
	if editMode {
		resolveIn.VisitRecordID = existing.VisitRecordID
		resolveIn.ReportID = existing.ID
	}
	visitID, visitCreated := s.resolver.Resolve(ctx, resolveIn)

	var warnings []string
	if visitID != "" {
		warnings = s.applyChanges(ctx, visitID, &req.Changes)
	} else if !req.Changes.IsEmpty() {
		warnings = append(warnings, "visit record unavailable; visit-level changes were not saved")
	}

	serviceDate, duration := s.serviceWindow(ctx, req.BookingID)
	now := time.Now()

	var report *ServiceReport
	var err error
	if editMode {
		report, err = s.repo.UpdateSubmission(ctx, existing.ID, UpdateParams{
			ServiceDate:     serviceDate,
			DurationMinutes: duration,
			Mood:            req.Mood,
			Engagement:      req.Engagement,
			Observations:    req.Observations,
			Feedback:        req.Feedback,
			NextVisitPrep:   req.NextVisitPrep,
			SubmittedAt:     now,
		})
	} else {
		report, err = s.repo.CreateReport(ctx, CreateParams{
			ClientID:        req.ClientID,
			StaffID:         actor.UserID,
			BranchID:        actor.BranchID,
			CreatedBy:       actor.UserID,
			VisitRecordID:   visitID,
			BookingID:       req.BookingID,
			ServiceDate:     serviceDate,
			DurationMinutes: duration,
			Mood:            req.Mood,
			Engagement:      req.Engagement,
			Observations:    req.Observations,
			Feedback:        req.Feedback,
			NextVisitPrep:   req.NextVisitPrep,
			SubmittedAt:     now,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	s.publishSubmitted(ctx, report, existing)
	s.invalidateViews(visitID, report.ClientID)

	if s.metrics != nil {
		mode := "create"
		if editMode {
			mode = "edit"
		}
		s.metrics.RecordReportSubmission(ctx, mode, len(warnings))
		if req.Changes.Vitals != nil {
			s.metrics.RecordNews2Score(ctx, string(news2.Score(*req.Changes.Vitals).Risk))
		}
	}

	return &SubmitResult{
		Report:       report,
		VisitID:      visitID,
		VisitCreated: visitCreated,
		Warnings:     warnings,
	}, nil
}

// applyChanges flushes an accumulated change set against the visit's rows.
// Each write stands alone; a failure is collected as a warning and the
// remaining writes still run.
func (s *Service) applyChanges(ctx context.Context, visitID string, changes *ChangeSet) []string {
	var warnings []string
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("Warning: %s", msg)
		warnings = append(warnings, msg)
	}

	for _, task := range changes.NewTasks {
		if _, err := s.visits.InsertTask(ctx, visitID, task); err != nil {
			warn("failed to add task %q: %v", task.Name, err)
		}
	}
	for _, med := range changes.NewMedications {
		if _, err := s.visits.InsertMedication(ctx, visitID, med); err != nil {
			warn("failed to add medication %q: %v", med.Name, err)
		}
	}
	for _, event := range changes.NewEvents {
		if _, err := s.visits.InsertEvent(ctx, visitID, event); err != nil {
			warn("failed to record %s event: %v", event.Type, err)
		}
	}

	// Placeholder ids belong to the New* lists above; patching them would
	// write the same row twice.
	for id, patch := range changes.Tasks {
		if IsManualID(id) {
			continue
		}
		if err := s.visits.UpdateTask(ctx, id, patch); err != nil {
			warn("failed to update task %s: %v", id, err)
		}
	}
	for id, patch := range changes.Medications {
		if IsManualID(id) {
			continue
		}
		if err := s.visits.UpdateMedication(ctx, id, patch); err != nil {
			warn("failed to update medication %s: %v", id, err)
		}
	}
	for id, patch := range changes.Events {
		if IsManualID(id) {
			continue
		}
		if err := s.visits.UpdateEvent(ctx, id, patch); err != nil {
			warn("failed to update event %s: %v", id, err)
		}
	}

	if changes.Vitals != nil {
		if err := s.saveVitals(ctx, visitID, *changes.Vitals); err != nil {
			warn("failed to save vitals: %v", err)
		}
	}

	if changes.VisitNotes != nil {
		if err := s.visits.UpdateVisitNotes(ctx, visitID, *changes.VisitNotes); err != nil {
			warn("failed to save visit notes: %v", err)
		}
	}

	if summary := changes.Summary(); summary != "" {
		if err := s.visits.UpdateVisitSummary(ctx, visitID, summary); err != nil {
			warn("failed to save visit summary: %v", err)
		}
	}

	return warnings
}

// saveVitals inserts the visit's single reading or replaces it wholesale.
func (s *Service) saveVitals(ctx context.Context, visitID string, vitals news2.Vitals) error {
	reading, err := s.visits.GetVitals(ctx, visitID)
	if err != nil {
		return err
	}
	if reading == nil {
		_, err = s.visits.InsertVitals(ctx, visitID, vitals)
		return err
	}
	return s.visits.UpdateVitals(ctx, reading.ID, vitals)
}

// serviceWindow derives the report's service date and duration from the
// booking's scheduled slot, falling back to now with zero duration when no
// booking is available.
func (s *Service) serviceWindow(ctx context.Context, bookingID string) (time.Time, int) {
	if bookingID == "" {
		return time.Now(), 0
	}
	booking, err := s.visits.GetBooking(ctx, bookingID)
	if err != nil {
		log.Printf("Warning: failed to load booking %s for service window: %v", bookingID, err)
		return time.Now(), 0
	}
	duration := int(booking.ScheduledEnd.Sub(booking.ScheduledStart).Minutes())
	if duration < 0 {
		duration = 0
	}
	return booking.ScheduledStart, duration
}

func (s *Service) publishSubmitted(ctx context.Context, report *ServiceReport, previous *ServiceReport) {
	if s.publisher == nil {
		return
	}
	routingKey := messaging.EventReportSubmitted
	if previous != nil && previous.Status == StatusRequiresRevision {
		routingKey = messaging.EventReportResubmitted
	}
	event := messaging.ReportSubmittedEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.ReportSubmittedData{
			ReportID:      report.ID,
			ClientID:      report.ClientID,
			StaffID:       report.StaffID,
			BranchID:      report.BranchID,
			VisitRecordID: report.VisitRecordID,
			Status:        report.Status,
			SubmittedAt:   *report.SubmittedAt,
		},
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// invalidateViews drops every cached view a submission can change.
func (s *Service) invalidateViews(visitID, clientID string) {
	if s.cache == nil {
		return
	}
	keys := []string{
		cache.CarePlanGoalsKey(clientID),
		cache.ClientActivitiesKey(clientID),
	}
	if visitID != "" {
		keys = append(keys,
			cache.VisitTasksKey(visitID),
			cache.VisitMedicationsKey(visitID),
			cache.VisitVitalsKey(visitID),
			cache.VisitEventsKey(visitID),
			cache.VisitRecordDetailsKey(visitID),
		)
	}
	s.cache.Invalidate(keys...)
}

func validateSubmission(req *SubmitRequest) error {
	if req.ReportID == "" && strings.TrimSpace(req.ClientID) == "" {
		return validationErr("client_id", ErrMissingClient.Error())
	}

	mood, ok := NormalizeMood(req.Mood)
	if !ok {
		if strings.TrimSpace(req.Mood) == "" {
			return validationErr("mood", ErrMissingMood.Error())
		}
		return validationErr("mood", fmt.Sprintf("unknown mood %q", req.Mood))
	}
	req.Mood = mood

	engagement, ok := NormalizeEngagement(req.Engagement)
	if !ok {
		if strings.TrimSpace(req.Engagement) == "" {
			return validationErr("engagement", ErrMissingEngagement.Error())
		}
		return validationErr("engagement", fmt.Sprintf("unknown engagement %q", req.Engagement))
	}
	req.Engagement = engagement

	req.Observations = strings.TrimSpace(req.Observations)
	if req.Observations == "" {
		return validationErr("observations", ErrMissingObservation.Error())
	}

	return nil
}

// Review applies an admin's status decision. Approval flips the report
// visible to the client's family; requires_revision hands it back to the
// carer for a resubmit.
func (s *Service) Review(ctx context.Context, actor Actor, reportID string, req ReviewRequest) (*ServiceReport, error) {
	if !IsReviewStatus(req.Status) {
		return nil, validationErr("status", fmt.Sprintf("unknown review status %q", req.Status))
	}

	report, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(report.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, report.Status, req.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, reportID, req.Status, actor.UserID, req.Notes)
	if err != nil {
		return nil, err
	}

	s.publishReviewed(ctx, report.Status, updated)

	if s.metrics != nil {
		s.metrics.RecordReportReview(ctx, updated.Status)
	}

	return updated, nil
}

func (s *Service) publishReviewed(ctx context.Context, oldStatus string, report *ServiceReport) {
	if s.publisher == nil {
		return
	}
	event := messaging.ReportReviewedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventReportReviewed),
		Data: messaging.ReportReviewedData{
			ReportID:   report.ID,
			ClientID:   report.ClientID,
			ReviewedBy: report.ReviewedBy,
			OldStatus:  oldStatus,
			NewStatus:  report.Status,
			ReviewedAt: *report.ReviewedAt,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventReportReviewed, event); err != nil {
		log.Printf("Warning: failed to publish report.reviewed event: %v", err)
	}
}

// Get returns one report. Carers only see reports they authored.
func (s *Service) Get(ctx context.Context, actor Actor, id string) (*ServiceReport, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && report.StaffID != actor.UserID {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// List returns a page of reports. Non-admin callers are pinned to their
// own submissions regardless of the requested filter.
func (s *Service) List(ctx context.Context, actor Actor, limit, offset int, filter ListFilter) ([]ServiceReport, int, error) {
	if !actor.IsAdmin {
		filter.StaffID = actor.UserID
	}
	return s.repo.ListReports(ctx, limit, offset, filter)
}

// Data assembles the aggregated view behind the report form for one
// client/booking pair. A resolvable visit record yields the live tier; when
// resolution degrades, the care plan renders read-only fallback content.
func (s *Service) Data(ctx context.Context, clientID, bookingID, visitRecordID string, editMode bool) (*Data, error) {
	visitID, _ := s.resolver.Resolve(ctx, visit.ResolveInput{
		ClientID:      clientID,
		BookingID:     bookingID,
		VisitRecordID: visitRecordID,
		EditMode:      editMode,
	})

	data := &Data{}

	content, err := s.plans.ResolveContent(ctx, clientID)
	if err != nil {
		data.SectionErrors = append(data.SectionErrors, "care plan: "+err.Error())
		content = nil
	}
	if content != nil {
		data.Goals = content.Goals
		data.Activities = content.Activities
	}

	if visitID == "" {
		data.Tier = TierEmpty
		data.ReadOnly = true
		if content != nil {
			data.Tier = TierCarePlan
			data.Tasks = fallbackTasks(content.Tasks)
			data.Medications = s.fallbackMedications(ctx, clientID, time.Now(), &data.SectionErrors)
		}
		return data, nil
	}

	data.Tier = TierVisit
	s.loadVisitSections(ctx, visitID, data)

	// Care-plan fallback fills a section only when the visit holds no rows
	// of its own for it.
	if len(data.Tasks) == 0 && content != nil {
		data.Tasks = fallbackTasks(content.Tasks)
	}
	if len(data.Medications) == 0 {
		start := time.Now()
		if data.VisitRecord != nil {
			start = data.VisitRecord.StartTime
		}
		data.Medications = s.fallbackMedications(ctx, clientID, start, &data.SectionErrors)
	}

	return data, nil
}

// loadVisitSections fills the live tier from the visit's rows, consulting
// the query cache per section. Sections fail independently.
func (s *Service) loadVisitSections(ctx context.Context, visitID string, data *Data) {
	record, err := s.visits.GetVisitRecord(ctx, visitID)
	if err != nil {
		data.SectionErrors = append(data.SectionErrors, "visit record: "+err.Error())
	} else {
		data.VisitRecord = record
	}

	tasks, err := s.visitTasks(ctx, visitID)
	if err != nil {
		data.SectionErrors = append(data.SectionErrors, "tasks: "+err.Error())
	} else {
		data.Tasks = visitTaskViews(tasks)
	}

	meds, err := s.visitMedications(ctx, visitID)
	if err != nil {
		data.SectionErrors = append(data.SectionErrors, "medications: "+err.Error())
	} else {
		data.Medications = visitMedicationViews(meds)
	}

	events, err := s.visits.ListEvents(ctx, visitID)
	if err != nil {
		data.SectionErrors = append(data.SectionErrors, "events: "+err.Error())
	} else {
		data.Events = events
	}

	reading, err := s.visits.GetVitals(ctx, visitID)
	if err != nil {
		data.SectionErrors = append(data.SectionErrors, "vitals: "+err.Error())
	} else if reading != nil {
		data.Vitals = &visit.VitalDetail{
			VitalReading: *reading,
			Score:        news2.Score(reading.Vitals),
		}
	}
}

func (s *Service) visitTasks(ctx context.Context, visitID string) ([]visit.Task, error) {
	key := cache.VisitTasksKey(visitID)
	if s.cache != nil {
		if cached, ok := s.cache.GetCached(key); ok {
			if tasks, ok := cached.([]visit.Task); ok {
				return tasks, nil
			}
		}
	}
	tasks, err := s.visits.ListTasks(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetCached(key, tasks)
	}
	return tasks, nil
}

func (s *Service) visitMedications(ctx context.Context, visitID string) ([]visit.Medication, error) {
	key := cache.VisitMedicationsKey(visitID)
	if s.cache != nil {
		if cached, ok := s.cache.GetCached(key); ok {
			if meds, ok := cached.([]visit.Medication); ok {
				return meds, nil
			}
		}
	}
	meds, err := s.visits.ListMedications(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetCached(key, meds)
	}
	return meds, nil
}

func (s *Service) fallbackMedications(ctx context.Context, clientID string, scheduledStart time.Time, sectionErrors *[]string) []MedicationView {
	meds, err := s.plans.MedicationsDueAt(ctx, clientID, scheduledStart)
	if err != nil {
		*sectionErrors = append(*sectionErrors, "medications: "+err.Error())
		return nil
	}
	views := make([]MedicationView, 0, len(meds))
	for _, med := range meds {
		views = append(views, MedicationView{
			Name:   med.Name,
			Dosage: med.Dosage,
			Notes:  med.Notes,
			Source: SourceCarePlan,
		})
	}
	return views
}

func visitTaskViews(tasks []visit.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, TaskView{
			ID:        task.ID,
			Category:  task.Category,
			Name:      task.Name,
			Completed: task.Completed,
			Notes:     task.Notes,
			Source:    SourceVisit,
		})
	}
	return dedupeTaskViews(views)
}

func fallbackTasks(tasks []careplan.PlanTask) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, TaskView{
			Category: task.Category,
			Name:     task.Name,
			Source:   SourceCarePlan,
		})
	}
	return dedupeTaskViews(views)
}

func visitMedicationViews(meds []visit.Medication) []MedicationView {
	views := make([]MedicationView, 0, len(meds))
	for _, med := range meds {
		views = append(views, MedicationView{
			ID:             med.ID,
			Name:           med.Name,
			Dosage:         med.Dosage,
			Administered:   med.Administered,
			AdministeredAt: med.AdministeredAt,
			Notes:          med.Notes,
			MissedReason:   med.MissedReason,
			Source:         SourceVisit,
		})
	}
	return dedupe.ByKey(views, func(v MedicationView) string {
		return dedupe.Key(v.Name, v.Dosage)
	})
}

func dedupeTaskViews(views []TaskView) []TaskView {
	return dedupe.ByKey(views, func(v TaskView) string {
		return dedupe.Key(v.Category, v.Name)
	})
}
