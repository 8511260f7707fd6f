package maternity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ehr/formfill/internal/formfill"
)

var (
	ErrUnknownDocType = errors.New("unknown document type")
	ErrInvalidRecord  = errors.New("invalid record")
)

// TemplateLoader returns the template bytes for a document type.
type TemplateLoader interface {
	Load(ctx context.Context, docType string) ([]byte, error)
}

// Document is a filled form ready for delivery.
type Document struct {
	Type     string             `json:"type"`
	Filename string             `json:"filename"`
	Content  []byte             `json:"-"`
	Written  []formfill.Write   `json:"written"`
	Warnings []formfill.Warning `json:"warnings"`
}

type Service struct {
	templates TemplateLoader
	opener    formfill.Opener
	formatter formfill.Formatter
	logger    zerolog.Logger
}

func NewService(templates TemplateLoader, opener formfill.Opener, formatter formfill.Formatter, logger zerolog.Logger) *Service {
	return &Service{
		templates: templates,
		opener:    opener,
		formatter: formatter,
		logger:    logger,
	}
}

// KnownDocType reports whether docType is one of DocTypes.
func KnownDocType(docType string) bool {
	for _, t := range DocTypes {
		if t == docType {
			return true
		}
	}
	return false
}

// -- Filenames --

func PatientRecordFilename(p PatientRecord) string {
	return formfill.SuggestedFilename("Patient", "Record", deref(p.Identity.LastName), deref(p.Identity.GivenName))
}

func LaborRecordFilename(l LaborRecord) string {
	return formfill.SuggestedFilename("Labor_Record", "", deref(l.Admission.PatientName))
}

func NewbornRecordFilename(n NewbornRecord) string {
	return formfill.SuggestedFilename("Baby_Record", "", deref(n.Name))
}

func BirthPlanFilename(b BirthPlanRecord) string {
	return formfill.SuggestedFilename("Birth_Plan", "", deref(b.HospitalName))
}

// -- Generation --

func (s *Service) GeneratePatientRecord(ctx context.Context, rec PatientRecord) (*Document, error) {
	return generate(ctx, s, PatientRecordTable, rec, PatientRecordFilename(rec))
}

func (s *Service) GenerateLaborRecord(ctx context.Context, rec LaborRecord) (*Document, error) {
	return generate(ctx, s, LaborRecordTable, rec, LaborRecordFilename(rec))
}

func (s *Service) GenerateNewbornRecord(ctx context.Context, rec NewbornRecord) (*Document, error) {
	return generate(ctx, s, NewbornRecordTable, rec, NewbornRecordFilename(rec))
}

func (s *Service) GenerateBirthPlan(ctx context.Context, rec BirthPlanRecord) (*Document, error) {
	return generate(ctx, s, BirthPlanTable, rec, BirthPlanFilename(rec))
}

// Generate decodes a JSON or YAML record for docType and fills its template.
func (s *Service) Generate(ctx context.Context, docType string, payload []byte) (*Document, error) {
	switch docType {
	case DocPatientRecord:
		rec, err := decodeRecord[PatientRecord](payload)
		if err != nil {
			return nil, err
		}
		return s.GeneratePatientRecord(ctx, rec)
	case DocLaborRecord:
		rec, err := decodeRecord[LaborRecord](payload)
		if err != nil {
			return nil, err
		}
		return s.GenerateLaborRecord(ctx, rec)
	case DocNewbornRecord:
		rec, err := decodeRecord[NewbornRecord](payload)
		if err != nil {
			return nil, err
		}
		return s.GenerateNewbornRecord(ctx, rec)
	case DocBirthPlan:
		rec, err := decodeRecord[BirthPlanRecord](payload)
		if err != nil {
			return nil, err
		}
		return s.GenerateBirthPlan(ctx, rec)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDocType, docType)
}

func decodeRecord[R any](payload []byte) (R, error) {
	var rec R
	if len(bytes.TrimSpace(payload)) == 0 {
		return rec, fmt.Errorf("%w: empty body", ErrInvalidRecord)
	}
	if err := json.Unmarshal(payload, &rec); err == nil {
		return rec, nil
	}
	rec = *new(R)
	if err := yaml.Unmarshal(payload, &rec); err != nil {
		return rec, fmt.Errorf("%w: invalid JSON or YAML: %w", ErrInvalidRecord, err)
	}
	return rec, nil
}

func (s *Service) options(docType string) formfill.Options {
	return formfill.Options{
		Formatter: s.formatter,
		Logger:    s.logger.With().Str("doc_type", docType).Logger(),
	}
}

func generate[R any](ctx context.Context, s *Service, table formfill.Table[R], rec R, filename string) (*Document, error) {
	start := time.Now()
	docType := table.Name

	data, err := s.templates.Load(ctx, docType)
	if err != nil {
		s.logger.Error().Err(err).Str("doc_type", docType).Msg("template load failed")
		return nil, err
	}

	res, err := formfill.Generate(data, s.opener, table, rec, s.options(docType))
	if err != nil {
		s.logger.Error().Err(err).Str("doc_type", docType).Msg("document generation failed")
		return nil, err
	}

	s.logger.Info().
		Str("doc_type", docType).
		Str("filename", filename).
		Int("written", len(res.Written)).
		Int("warnings", len(res.Warnings)).
		Dur("elapsed", time.Since(start)).
		Msg("document generated")

	return &Document{
		Type:     docType,
		Filename: filename,
		Content:  res.Content,
		Written:  res.Written,
		Warnings: res.Warnings,
	}, nil
}

// -- Template diagnostics --

// Specs returns the field specs of the table for docType.
func Specs(docType string) ([]formfill.FieldSpec, error) {
	switch docType {
	case DocPatientRecord:
		return PatientRecordTable.Specs(), nil
	case DocLaborRecord:
		return LaborRecordTable.Specs(), nil
	case DocNewbornRecord:
		return NewbornRecordTable.Specs(), nil
	case DocBirthPlan:
		return BirthPlanTable.Specs(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDocType, docType)
}

func (s *Service) open(ctx context.Context, docType string) (formfill.Template, error) {
	if !KnownDocType(docType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocType, docType)
	}
	data, err := s.templates.Load(ctx, docType)
	if err != nil {
		return nil, err
	}
	return formfill.Open(s.opener, data)
}

// ListFields returns the widget inventory of the template for docType.
func (s *Service) ListFields(ctx context.Context, docType string) ([]formfill.Widget, error) {
	tpl, err := s.open(ctx, docType)
	if err != nil {
		return nil, err
	}
	return tpl.Widgets(), nil
}

// Audit compares the mapping table for docType with its current template.
func (s *Service) Audit(ctx context.Context, docType string) (*formfill.AuditReport, error) {
	specs, err := Specs(docType)
	if err != nil {
		return nil, err
	}
	tpl, err := s.open(ctx, docType)
	if err != nil {
		return nil, err
	}
	rep := formfill.Audit(tpl, specs)
	s.logger.Info().
		Str("doc_type", docType).
		Int("matched", rep.Matched).
		Int("missing", len(rep.Missing)).
		Int("unmapped", len(rep.Unmapped)).
		Int("mismatched", len(rep.Mismatched)).
		Msg("template audited")
	return &rep, nil
}

// FieldMap fills the template for docType with its own widget names.
func (s *Service) FieldMap(ctx context.Context, docType string) (*Document, error) {
	tpl, err := s.open(ctx, docType)
	if err != nil {
		return nil, err
	}
	rep := formfill.FieldMap(tpl)
	out, err := formfill.Finalize(tpl)
	if err != nil {
		return nil, err
	}
	return &Document{
		Type:     docType,
		Filename: formfill.SuggestedFilename("Field_Map", "", docType),
		Content:  out,
		Written:  rep.Written,
		Warnings: rep.Warnings,
	}, nil
}
