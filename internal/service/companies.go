package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
	"github.com/1-to-100/baseplate-v3-sub003/internal/filter"
	"github.com/1-to-100/baseplate-v3-sub003/internal/repository"
	"github.com/1-to-100/baseplate-v3-sub003/internal/service/scoring"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100

	// defaultScopePageSize is the store's per-call row cap when accumulating
	// a customer's scoped company-ID set.
	defaultScopePageSize = 1000
)

// CompaniesService resolves company pages across the three candidate
// strategies (static list membership, customer scope, global catalogue),
// merges customer overlays, and owns single-company matching for dynamic
// lists.
type CompaniesService struct {
	repo          repository.CompaniesRepository
	lists         repository.ListsRepository
	users         repository.UsersRepository
	scopePageSize int
}

// NewCompaniesService creates a new instance of CompaniesService.
// scopePageSize bounds each customer-scope ID fetch; values <= 0 fall back
// to the default store cap.
func NewCompaniesService(repo repository.CompaniesRepository, lists repository.ListsRepository, users repository.UsersRepository, scopePageSize int) *CompaniesService {
	if scopePageSize <= 0 {
		scopePageSize = defaultScopePageSize
	}
	return &CompaniesService{repo: repo, lists: lists, users: users, scopePageSize: scopePageSize}
}

// ResolveCompanies returns one page of companies for the caller's tenant
// scope, filtered, sorted, and overlaid with customer fields.
func (s *CompaniesService) ResolveCompanies(ctx context.Context, tenant TenantContext, raw dto.RawCompanyFilter, pageReq dto.PageRequest) (dto.CompanyPage, error) {
	page, perPage, err := normalizePagination(pageReq)
	if err != nil {
		return dto.CompanyPage{}, err
	}

	customerID, err := s.effectiveCustomer(ctx, tenant)
	if err != nil {
		return dto.CompanyPage{}, err
	}

	spec := filter.Normalize(raw)

	var candidates []uuid.UUID
	restricted := false

	if raw.ListID != nil && *raw.ListID != "" {
		listID, parseErr := uuid.Parse(*raw.ListID)
		if parseErr != nil {
			return dto.CompanyPage{}, ValidationError{Message: "invalid list id"}
		}
		list, listErr := s.lists.GetByID(ctx, listID)
		if listErr != nil {
			return dto.CompanyPage{}, listErr
		}
		if customerID != nil && list.CustomerID != *customerID {
			return dto.CompanyPage{}, repository.ErrListNotFound
		}

		if list.IsStatic() {
			members, memberErr := s.lists.SelectListMembership(ctx, list.ID)
			if memberErr != nil {
				return dto.CompanyPage{}, memberErr
			}
			if len(members) == 0 {
				return dto.NewCompanyPage(nil, 0, page, perPage), nil
			}
			candidates = members
			restricted = true
		} else {
			listSpec, ok := normalizeStoredFilters(list.Filters)
			if !ok || !listSpec.Active() {
				// A dynamic list without filters matches nothing.
				return dto.NewCompanyPage(nil, 0, page, perPage), nil
			}
			spec = mergeSpecs(spec, listSpec)
		}
	}

	if !restricted {
		switch {
		case customerID != nil:
			ids, scopeErr := s.collectCustomerCompanyIDs(ctx, *customerID)
			if scopeErr != nil {
				return dto.CompanyPage{}, scopeErr
			}
			if len(ids) == 0 {
				return dto.NewCompanyPage(nil, 0, page, perPage), nil
			}
			candidates = ids
			restricted = true
		case tenant.IsAdmin():
			// Global catalogue scan.
		default:
			return dto.CompanyPage{}, ErrTenantContextRequired
		}
	}

	sort := filter.DefaultSort()
	if pageReq.SortColumn != "" {
		sort = filter.Sort{Column: pageReq.SortColumn, Ascending: pageReq.Ascending}
	}

	sel := repository.CompanySelection{
		Predicates: filter.Compile(spec),
		Sort:       sort,
		Range:      filter.PageRange(page, perPage),
	}
	if restricted {
		sel.CandidateIDs = candidates
	}

	rowsPage, err := s.repo.SelectCompanies(ctx, sel)
	if err != nil {
		return dto.CompanyPage{}, fmt.Errorf("resolve companies: %w", err)
	}

	items, err := s.overlayItems(ctx, customerID, rowsPage.Companies)
	if err != nil {
		return dto.CompanyPage{}, err
	}
	return dto.NewCompanyPage(items, rowsPage.Total, page, perPage), nil
}

// MatchesFilters tests a single company against a dynamic list's stored
// filter blob without a store round-trip. An empty or malformed blob, or one
// with no active dimension, matches nothing.
func (s *CompaniesService) MatchesFilters(company *entity.Company, rawFilters json.RawMessage) bool {
	spec, ok := normalizeStoredFilters(rawFilters)
	if !ok {
		return false
	}
	return filter.Matches(company, spec)
}

// GetCompany fetches one company with the caller's overlay applied. The base
// record, the overlay, and the list memberships are independent reads and
// are issued concurrently; membership enrichment is best-effort and never
// fails the load.
func (s *CompaniesService) GetCompany(ctx context.Context, tenant TenantContext, companyID uuid.UUID) (*dto.CompanyItem, error) {
	customerID, err := s.effectiveCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	var (
		company  *entity.Company
		overlays []entity.CompanyOverlay
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		company, fetchErr = s.repo.GetByID(gctx, companyID)
		return fetchErr
	})
	if customerID != nil {
		g.Go(func() error {
			var fetchErr error
			overlays, fetchErr = s.repo.SelectOverlays(gctx, *customerID, []uuid.UUID{companyID})
			return fetchErr
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var overlay *entity.CompanyOverlay
	if len(overlays) > 0 {
		overlay = &overlays[0]
	}
	item := buildItem(*company, overlay)
	if customerID != nil {
		// Membership is decided on the record the customer sees, overlay
		// included.
		item.ListIDs = s.listsContaining(ctx, *customerID, &item.Company)
	}
	return &item, nil
}

// UpdateCompany applies a partial update. Customer-scoped fields are
// upserted into the caller's overlay; global fields patch the shared
// catalogue row. The two writes touch different storage and run
// independently.
func (s *CompaniesService) UpdateCompany(ctx context.Context, tenant TenantContext, companyID uuid.UUID, req dto.UpdateCompanyRequest) error {
	customerID, err := s.effectiveCustomer(ctx, tenant)
	if err != nil {
		return err
	}
	if req.HasCustomerFields() && customerID == nil {
		return ErrTenantContextRequired
	}
	if err := validateCompanyUpdate(&req); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if req.HasCustomerFields() {
		overlay := &entity.CompanyOverlay{
			CustomerID: *customerID,
			CompanyID:  companyID,
			Name:       req.Name,
			Revenue:    req.Revenue,
			Country:    req.Country,
			Region:     req.Region,
			Employees:  req.Employees,
			Email:      req.Email,
		}
		if len(req.Categories) > 0 {
			titled := make([]string, len(req.Categories))
			for i, c := range req.Categories {
				titled[i] = filter.TitleCase(c)
			}
			overlay.Categories = titled
		}
		g.Go(func() error {
			return s.repo.UpsertOverlay(gctx, overlay)
		})
	}

	if req.HasGlobalFields() {
		patch := repository.GlobalFieldsPatch{
			Phone:       req.Phone,
			WebsiteURL:  req.WebsiteURL,
			Description: req.Description,
			LinkedInURL: req.LinkedInURL,
		}
		g.Go(func() error {
			return s.repo.PatchGlobalFields(gctx, companyID, patch)
		})
	}

	return g.Wait()
}

// collectCustomerCompanyIDs assembles the customer's complete scoped
// company-ID set before any filtering runs. Pages are fetched sequentially:
// each page's length decides whether another fetch is needed, so the loop
// must not be parallelized.
func (s *CompaniesService) collectCustomerCompanyIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	var all []uuid.UUID
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ids, err := s.repo.SelectCustomerCompanyIDs(ctx, customerID, offset, s.scopePageSize)
		if err != nil {
			return nil, fmt.Errorf("collect customer companies: %w", err)
		}
		all = append(all, ids...)
		if len(ids) < s.scopePageSize {
			return all, nil
		}
		offset += s.scopePageSize
	}
}

// overlayItems fetches overlays for exactly the page's companies and merges
// them onto the base records.
func (s *CompaniesService) overlayItems(ctx context.Context, customerID *uuid.UUID, companies []entity.Company) ([]dto.CompanyItem, error) {
	items := make([]dto.CompanyItem, 0, len(companies))

	var overlayByCompany map[uuid.UUID]*entity.CompanyOverlay
	if customerID != nil && len(companies) > 0 {
		ids := make([]uuid.UUID, len(companies))
		for i, c := range companies {
			ids[i] = c.ID
		}
		overlays, err := s.repo.SelectOverlays(ctx, *customerID, ids)
		if err != nil {
			return nil, fmt.Errorf("overlay companies: %w", err)
		}
		overlayByCompany = make(map[uuid.UUID]*entity.CompanyOverlay, len(overlays))
		for i := range overlays {
			overlayByCompany[overlays[i].CompanyID] = &overlays[i]
		}
	}

	for _, c := range companies {
		items = append(items, buildItem(c, overlayByCompany[c.ID]))
	}
	return items, nil
}

func buildItem(base entity.Company, overlay *entity.CompanyOverlay) dto.CompanyItem {
	item := dto.CompanyItem{Company: overlay.Apply(base)}
	if overlay != nil {
		if result := scoring.Parse(overlay.LastScoringResults); result != nil {
			item.Score = &result.Score
			if result.ShortDescription != "" {
				summary := result.ShortDescription
				item.ScoreSummary = &summary
			}
			if result.FullDescription != "" {
				description := result.FullDescription
				item.ScoreDescription = &description
			}
		}
	}
	return item
}

// listsContaining computes which of the customer's lists include the
// company. This is supplementary display data: any store failure degrades to
// what was collected so far rather than failing the caller.
func (s *CompaniesService) listsContaining(ctx context.Context, customerID uuid.UUID, company *entity.Company) []string {
	lists, err := s.lists.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil
	}

	var ids []string
	for _, list := range lists {
		if list.IsStatic() {
			members, memberErr := s.lists.SelectListMembership(ctx, list.ID)
			if memberErr != nil {
				continue
			}
			for _, member := range members {
				if member == company.ID {
					ids = append(ids, list.ID.String())
					break
				}
			}
			continue
		}
		if s.MatchesFilters(company, list.Filters) {
			ids = append(ids, list.ID.String())
		}
	}
	return ids
}

// normalizeStoredFilters decodes a stored filter blob defensively. The
// second return value is false when the blob is empty or malformed.
func normalizeStoredFilters(raw json.RawMessage) (filter.Spec, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return filter.Spec{}, false
	}
	var rawFilter dto.RawCompanyFilter
	if err := json.Unmarshal(raw, &rawFilter); err != nil {
		return filter.Spec{}, false
	}
	return filter.Normalize(rawFilter), true
}

// mergeSpecs layers request filters over a dynamic list's stored filters.
// A dimension active on the request side wins; otherwise the list's value
// applies.
func mergeSpecs(request, stored filter.Spec) filter.Spec {
	merged := stored
	if request.Search != "" {
		merged.Search = request.Search
	}
	if len(request.Countries) > 0 {
		merged.Countries = request.Countries
	}
	if len(request.Regions) > 0 {
		merged.Regions = request.Regions
	}
	if request.MinEmployees != nil {
		merged.MinEmployees = request.MinEmployees
	}
	if request.MaxEmployees != nil {
		merged.MaxEmployees = request.MaxEmployees
	}
	if len(request.Categories) > 0 {
		merged.Categories = request.Categories
	}
	if len(request.Technologies) > 0 {
		merged.Technologies = request.Technologies
	}
	return merged
}

func normalizePagination(req dto.PageRequest) (int, int, error) {
	if req.Page < 0 {
		return 0, 0, ValidationError{Message: "page must be positive"}
	}
	if req.PerPage < 0 {
		return 0, 0, ValidationError{Message: "per_page must be positive"}
	}
	page := req.Page
	if page == 0 {
		page = 1
	}
	perPage := req.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, nil
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

var requiredCSVHeaders = []string{"display_name", "legal_name", "domain", "website_url", "country", "region", "employees", "categories", "technologies", "phone", "email"}

// ImportCompaniesCSV ingests global catalogue rows from a CSV reader.
// Categories are Title-Cased on the way in so stored values match the
// canonical filter form.
func (s *CompaniesService) ImportCompaniesCSV(ctx context.Context, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}

	var (
		records []repository.BulkUpsertCompanyInput
		rowNum  = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}

		rowNum++

		displayName := strings.TrimSpace(row[indexMap["display_name"]])
		if displayName == "" {
			continue
		}

		employees, parseErr := parseOptionalInt(row[indexMap["employees"]])
		if parseErr != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid employees value on row %d", rowNum)}
		}

		categories := splitMultiValue(row[indexMap["categories"]])
		for i, c := range categories {
			categories[i] = filter.TitleCase(c)
		}

		records = append(records, repository.BulkUpsertCompanyInput{
			DisplayName:  displayName,
			LegalName:    normalizeString(row[indexMap["legal_name"]]),
			Domain:       normalizeString(row[indexMap["domain"]]),
			WebsiteURL:   normalizeString(row[indexMap["website_url"]]),
			Country:      normalizeString(row[indexMap["country"]]),
			Region:       normalizeString(row[indexMap["region"]]),
			Employees:    employees,
			Categories:   categories,
			Technologies: splitMultiValue(row[indexMap["technologies"]]),
			Phone:        normalizeString(row[indexMap["phone"]]),
			Email:        normalizeString(row[indexMap["email"]]),
		})
	}

	result, err := s.repo.BulkUpsertCompanies(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}

	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Total:    result.Total,
	}, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

// splitMultiValue parses a pipe-separated cell into trimmed values.
func splitMultiValue(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
