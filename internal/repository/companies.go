package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
	"github.com/1-to-100/baseplate-v3-sub003/internal/filter"
)

// ErrCompanyNotFound indicates there is no catalogue row for the given id.
var ErrCompanyNotFound = errors.New("company not found")

// CompanySelection describes one catalogue query: an optional candidate-ID
// restriction, compiled filter predicates, sort, and row window.
type CompanySelection struct {
	CandidateIDs []uuid.UUID
	Predicates   []filter.Predicate
	Sort         filter.Sort
	Range        filter.Range
}

// CompanyPageRows is a page of catalogue rows plus the pre-pagination total.
type CompanyPageRows struct {
	Companies []entity.Company
	Total     int
}

// GlobalFieldsPatch carries the shared-catalogue fields of a company update.
// Nil fields are left untouched.
type GlobalFieldsPatch struct {
	Phone       *string
	WebsiteURL  *string
	Description *string
	LinkedInURL *string
}

// BulkUpsertCompanyInput represents the minimal fields required for CSV
// catalogue ingestion.
type BulkUpsertCompanyInput struct {
	DisplayName  string
	LegalName    *string
	Domain       *string
	WebsiteURL   *string
	Country      *string
	Region       *string
	Employees    *int
	Categories   []string
	Technologies []string
	Phone        *string
	Email        *string
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

// CompaniesRepository describes persistence operations for the global
// catalogue and the per-customer overlays layered on top of it.
type CompaniesRepository interface {
	SelectCompanies(ctx context.Context, sel CompanySelection) (CompanyPageRows, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	SelectOverlays(ctx context.Context, customerID uuid.UUID, companyIDs []uuid.UUID) ([]entity.CompanyOverlay, error)
	UpsertOverlay(ctx context.Context, overlay *entity.CompanyOverlay) error
	PatchGlobalFields(ctx context.Context, companyID uuid.UUID, patch GlobalFieldsPatch) error
	SelectCustomerCompanyIDs(ctx context.Context, customerID uuid.UUID, offset, limit int) ([]uuid.UUID, error)
	BulkUpsertCompanies(ctx context.Context, records []BulkUpsertCompanyInput) (BulkUpsertResult, error)
}

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const companyColumns = `
            id,
            display_name,
            legal_name,
            domain,
            website_url,
            logo,
            description,
            type,
            country,
            region,
            address,
            latitude,
            longitude,
            employees,
            revenue,
            currency_code,
            sic_codes,
            categories,
            technologies,
            phone,
            email,
            social_links,
            created_at,
            updated_at,
            fetched_at
`

// SelectCompanies runs a compiled filter against the catalogue and returns
// one page of rows together with the pre-pagination total.
func (r *PGXCompaniesRepository) SelectCompanies(ctx context.Context, sel CompanySelection) (CompanyPageRows, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString("SELECT " + companyColumns + ", COUNT(*) OVER() AS total_count FROM companies")

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if sel.CandidateIDs != nil {
		clauses = append(clauses, fmt.Sprintf("id = ANY($%d)", idx))
		args = append(args, sel.CandidateIDs)
		idx++
	}

	for _, p := range sel.Predicates {
		clause, err := buildPredicateClause(p, &args, &idx)
		if err != nil {
			return CompanyPageRows{}, err
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	orderClause, err := buildOrderClause(sel.Sort)
	if err != nil {
		return CompanyPageRows{}, err
	}
	baseQuery.WriteString(" ORDER BY ")
	baseQuery.WriteString(orderClause)

	limit := sel.Range.To - sel.Range.From + 1
	if limit > 0 {
		baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
		args = append(args, limit, sel.Range.From)
	}

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return CompanyPageRows{}, fmt.Errorf("select companies: %w", err)
	}
	defer rows.Close()

	return scanCompanyPage(rows)
}

// buildPredicateClause translates one logical predicate into SQL. The
// logical "name" field coalesces display and legal names and "employees"
// treats NULL as zero so pushdown decisions match the in-memory evaluator.
func buildPredicateClause(p filter.Predicate, args *[]any, idx *int) (string, error) {
	switch p.Op {
	case filter.OpSubstringOr:
		pattern := "%" + escapeLike(p.Text) + "%"
		parts := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			col, err := scalarColumn(f)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, *idx))
			*args = append(*args, pattern)
			*idx++
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case filter.OpEq:
		col, err := scalarColumn(p.Field)
		if err != nil {
			return "", err
		}
		clause := fmt.Sprintf("%s = $%d", col, *idx)
		*args = append(*args, p.Values[0])
		*idx++
		return clause, nil
	case filter.OpIn:
		col, err := scalarColumn(p.Field)
		if err != nil {
			return "", err
		}
		clause := fmt.Sprintf("%s = ANY($%d)", col, *idx)
		*args = append(*args, p.Values)
		*idx++
		return clause, nil
	case filter.OpGte, filter.OpLte:
		col, err := scalarColumn(p.Field)
		if err != nil {
			return "", err
		}
		cmp := ">="
		if p.Op == filter.OpLte {
			cmp = "<="
		}
		clause := fmt.Sprintf("%s %s $%d", col, cmp, *idx)
		*args = append(*args, p.Number)
		*idx++
		return clause, nil
	case filter.OpArrayOverlaps:
		col, err := arrayColumn(p.Field)
		if err != nil {
			return "", err
		}
		// Case-folded overlap keeps parity with the in-memory comparison.
		clause := fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE LOWER(elem) = ANY($%d))", col, *idx)
		*args = append(*args, lowered(p.Values))
		*idx++
		return clause, nil
	case filter.OpArrayContains:
		col, err := arrayColumn(p.Field)
		if err != nil {
			return "", err
		}
		clause := fmt.Sprintf("%s @> $%d", col, *idx)
		*args = append(*args, p.Values)
		*idx++
		return clause, nil
	default:
		return "", fmt.Errorf("unsupported predicate op %q", p.Op)
	}
}

func scalarColumn(field string) (string, error) {
	switch field {
	case filter.FieldName:
		// NULLIF keeps parity with the in-memory name fallback, which also
		// treats an empty display name as absent.
		return "COALESCE(NULLIF(display_name, ''), legal_name, '')", nil
	case filter.FieldDomain:
		return "COALESCE(domain, '')", nil
	case filter.FieldCountry:
		return "country", nil
	case filter.FieldRegion:
		return "region", nil
	case filter.FieldEmployees:
		return "COALESCE(employees, 0)", nil
	default:
		return "", fmt.Errorf("unsupported scalar field %q", field)
	}
}

func arrayColumn(field string) (string, error) {
	switch field {
	case filter.FieldCategories:
		return "categories", nil
	case filter.FieldTechnologies:
		return "technologies", nil
	default:
		return "", fmt.Errorf("unsupported array field %q", field)
	}
}

func buildOrderClause(sort filter.Sort) (string, error) {
	column := sort.Column
	if column == "" {
		column = "created_at"
	}
	var col string
	switch column {
	case "created_at", "updated_at", "employees", "revenue", "country":
		col = column
	case filter.FieldName:
		col = "COALESCE(NULLIF(display_name, ''), legal_name, '')"
	default:
		return "", fmt.Errorf("unsupported sort column %q", sort.Column)
	}
	direction := "DESC"
	if sort.Ascending {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, id ASC", col, direction), nil
}

// escapeLike neutralises LIKE metacharacters so the pushdown pattern
// performs plain substring matching, the same as the in-memory evaluator.
func escapeLike(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(text)
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// GetByID returns a single catalogue row.
func (r *PGXCompaniesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	query := "SELECT " + companyColumns + " FROM companies WHERE id = $1"
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get company: %w", err)
		}
		return nil, ErrCompanyNotFound
	}
	company, err := scanCompany(rows, nil)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// SelectOverlays fetches the customer's overlay rows for the given company
// ids. Companies without an overlay are simply absent from the result.
func (r *PGXCompaniesRepository) SelectOverlays(ctx context.Context, customerID uuid.UUID, companyIDs []uuid.UUID) ([]entity.CompanyOverlay, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT customer_id, company_id, name, categories, revenue, country, region,
               employees, email, last_scoring_results, created_at, updated_at
        FROM company_customer_overlays
        WHERE customer_id = $1 AND company_id = ANY($2)
    `
	rows, err := r.pool.Query(ctx, query, customerID, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("select overlays: %w", err)
	}
	defer rows.Close()

	var overlays []entity.CompanyOverlay
	for rows.Next() {
		var (
			o         entity.CompanyOverlay
			name      sql.NullString
			revenue   sql.NullInt64
			country   sql.NullString
			region    sql.NullString
			employees sql.NullInt64
			email     sql.NullString
			scoring   []byte
		)
		err := rows.Scan(
			&o.CustomerID,
			&o.CompanyID,
			&name,
			&o.Categories,
			&revenue,
			&country,
			&region,
			&employees,
			&email,
			&scoring,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan overlay: %w", err)
		}
		o.Name = nullStringToPtr(name)
		o.Country = nullStringToPtr(country)
		o.Region = nullStringToPtr(region)
		o.Email = nullStringToPtr(email)
		if revenue.Valid {
			val := revenue.Int64
			o.Revenue = &val
		}
		if employees.Valid {
			val := int(employees.Int64)
			o.Employees = &val
		}
		if len(scoring) > 0 {
			o.LastScoringResults = json.RawMessage(scoring)
		}
		overlays = append(overlays, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overlays: %w", err)
	}
	return overlays, nil
}

// UpsertOverlay inserts or updates an overlay row keyed by the
// (customer_id, company_id) pair. Fields the caller left nil keep their
// stored value, so concurrent writers touching different fields compose.
func (r *PGXCompaniesRepository) UpsertOverlay(ctx context.Context, overlay *entity.CompanyOverlay) error {
	if overlay == nil {
		return fmt.Errorf("overlay payload is nil")
	}

	query := `
        INSERT INTO company_customer_overlays (
            customer_id,
            company_id,
            name,
            categories,
            revenue,
            country,
            region,
            employees,
            email,
            last_scoring_results,
            updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, NOW())
        ON CONFLICT (customer_id, company_id) DO UPDATE SET
            name = COALESCE(EXCLUDED.name, company_customer_overlays.name),
            categories = COALESCE(EXCLUDED.categories, company_customer_overlays.categories),
            revenue = COALESCE(EXCLUDED.revenue, company_customer_overlays.revenue),
            country = COALESCE(EXCLUDED.country, company_customer_overlays.country),
            region = COALESCE(EXCLUDED.region, company_customer_overlays.region),
            employees = COALESCE(EXCLUDED.employees, company_customer_overlays.employees),
            email = COALESCE(EXCLUDED.email, company_customer_overlays.email),
            last_scoring_results = COALESCE(EXCLUDED.last_scoring_results, company_customer_overlays.last_scoring_results),
            updated_at = NOW();
    `

	var scoring any
	if len(overlay.LastScoringResults) > 0 {
		scoring = string(overlay.LastScoringResults)
	}

	_, err := r.pool.Exec(ctx, query,
		overlay.CustomerID,
		overlay.CompanyID,
		overlay.Name,
		overlay.Categories,
		overlay.Revenue,
		overlay.Country,
		overlay.Region,
		overlay.Employees,
		overlay.Email,
		scoring,
	)
	if err != nil {
		return fmt.Errorf("upsert overlay: %w", err)
	}
	return nil
}

// PatchGlobalFields updates the shared catalogue fields of a company. Only
// non-nil fields are written.
func (r *PGXCompaniesRepository) PatchGlobalFields(ctx context.Context, companyID uuid.UUID, patch GlobalFieldsPatch) error {
	var (
		sets []string
		args []any
		idx  = 1
	)
	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, *value)
		idx++
	}
	appendSet("phone", patch.Phone)
	appendSet("website_url", patch.WebsiteURL)
	appendSet("description", patch.Description)
	appendSet("linkedin_url", patch.LinkedInURL)

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE companies SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	args = append(args, companyID)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patch company fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// SelectCustomerCompanyIDs returns one page of the customer's scoped
// company-ID set, ordered stably so sequential pagination never skips rows.
func (r *PGXCompaniesRepository) SelectCustomerCompanyIDs(ctx context.Context, customerID uuid.UUID, offset, limit int) ([]uuid.UUID, error) {
	query := `
        SELECT company_id
        FROM customer_companies
        WHERE customer_id = $1
        ORDER BY company_id
        LIMIT $2 OFFSET $3
    `
	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select customer company ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan customer company id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer company ids: %w", err)
	}
	return ids, nil
}

const bulkUpsertSQL = `
        INSERT INTO companies (
            display_name, legal_name, domain, website_url, country, region,
            employees, categories, technologies, phone, email, updated_at
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
        ON CONFLICT (domain) WHERE domain IS NOT NULL DO UPDATE SET
            display_name = EXCLUDED.display_name,
            legal_name = EXCLUDED.legal_name,
            website_url = EXCLUDED.website_url,
            country = EXCLUDED.country,
            region = EXCLUDED.region,
            employees = EXCLUDED.employees,
            categories = EXCLUDED.categories,
            technologies = EXCLUDED.technologies,
            phone = EXCLUDED.phone,
            email = EXCLUDED.email,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsertCompanies persists a batch of catalogue rows with idempotent
// semantics, keyed by domain.
func (r *PGXCompaniesRepository) BulkUpsertCompanies(ctx context.Context, records []BulkUpsertCompanyInput) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		rows, err := tx.Query(ctx, bulkUpsertSQL,
			record.DisplayName,
			stringOrNil(record.LegalName),
			stringOrNil(record.Domain),
			stringOrNil(record.WebsiteURL),
			stringOrNil(record.Country),
			stringOrNil(record.Region),
			intOrNil(record.Employees),
			stringSliceOrEmpty(record.Categories),
			stringSliceOrEmpty(record.Technologies),
			stringOrNil(record.Phone),
			stringOrNil(record.Email),
		)
		if err != nil {
			return result, fmt.Errorf("bulk upsert company %q: %w", record.DisplayName, err)
		}

		var inserted bool
		if rows.Next() {
			if scanErr := rows.Scan(&inserted); scanErr != nil {
				rows.Close()
				return result, fmt.Errorf("scan bulk upsert result: %w", scanErr)
			}
		} else {
			err := rows.Err()
			rows.Close()
			if err != nil {
				return result, fmt.Errorf("bulk upsert company %q: %w", record.DisplayName, err)
			}
			return result, fmt.Errorf("bulk upsert company %q: no result returned", record.DisplayName)
		}
		rows.Close()

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

func scanCompanyPage(rows pgx.Rows) (CompanyPageRows, error) {
	var page CompanyPageRows
	for rows.Next() {
		var total int
		company, err := scanCompany(rows, &total)
		if err != nil {
			return CompanyPageRows{}, err
		}
		page.Companies = append(page.Companies, *company)
		page.Total = total
	}
	if err := rows.Err(); err != nil {
		return CompanyPageRows{}, fmt.Errorf("iterate companies: %w", err)
	}
	return page, nil
}

// scanCompany scans one catalogue row. When total is non-nil the query is
// expected to carry a trailing COUNT(*) OVER() column.
func scanCompany(rows pgx.Rows, total *int) (*entity.Company, error) {
	var (
		c            entity.Company
		legalName    sql.NullString
		domain       sql.NullString
		websiteURL   sql.NullString
		logo         sql.NullString
		description  sql.NullString
		companyType  sql.NullString
		country      sql.NullString
		region       sql.NullString
		address      sql.NullString
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		employees    sql.NullInt64
		revenue      sql.NullInt64
		currencyCode sql.NullString
		phone        sql.NullString
		email        sql.NullString
		socialLinks  []byte
		fetchedAt    sql.NullTime
	)

	dest := []any{
		&c.ID,
		&c.DisplayName,
		&legalName,
		&domain,
		&websiteURL,
		&logo,
		&description,
		&companyType,
		&country,
		&region,
		&address,
		&latitude,
		&longitude,
		&employees,
		&revenue,
		&currencyCode,
		&c.SICCodes,
		&c.Categories,
		&c.Technologies,
		&phone,
		&email,
		&socialLinks,
		&c.CreatedAt,
		&c.UpdatedAt,
		&fetchedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan company: %w", err)
	}

	c.LegalName = nullStringToPtr(legalName)
	c.Domain = nullStringToPtr(domain)
	c.WebsiteURL = nullStringToPtr(websiteURL)
	c.Logo = nullStringToPtr(logo)
	c.Description = nullStringToPtr(description)
	c.Type = nullStringToPtr(companyType)
	c.Country = nullStringToPtr(country)
	c.Region = nullStringToPtr(region)
	c.Address = nullStringToPtr(address)
	c.CurrencyCode = nullStringToPtr(currencyCode)
	c.Phone = nullStringToPtr(phone)
	c.Email = nullStringToPtr(email)
	if latitude.Valid {
		val := latitude.Float64
		c.Latitude = &val
	}
	if longitude.Valid {
		val := longitude.Float64
		c.Longitude = &val
	}
	if employees.Valid {
		val := int(employees.Int64)
		c.Employees = &val
	}
	if revenue.Valid {
		val := revenue.Int64
		c.Revenue = &val
	}
	if len(socialLinks) > 0 {
		if err := json.Unmarshal(socialLinks, &c.SocialLinks); err != nil {
			return nil, fmt.Errorf("unmarshal social links: %w", err)
		}
	}
	if fetchedAt.Valid {
		ts := fetchedAt.Time
		c.FetchedAt = &ts
	}

	return &c, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
