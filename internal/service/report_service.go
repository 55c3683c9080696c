package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// MaxReportDays caps the number of day buckets a single report may span
const MaxReportDays = 20 * 366

// ReportService builds dense daily report series from matching transactions
type ReportService struct {
	transactionRepo domain.TransactionRepository
	walletRepo      domain.WalletRepository
	categoryRepo    domain.CategoryRepository
	now             func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository, walletRepo domain.WalletRepository, categoryRepo domain.CategoryRepository) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// SetClock overrides the clock used to default the end of the report window
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// reportSeries is the raw material shared by both report shapes
type reportSeries struct {
	transactions []*domain.Transaction
	days         []string
	loc          *time.Location
}

// BuildSpendingFlowReport sums matching transaction values per day
func (s *ReportService) BuildSpendingFlowReport(userID uuid.UUID, req domain.ReportRequest) (*domain.SpendingFlowReport, error) {
	series, err := s.collect(userID, req)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, t := range series.transactions {
		value := t.Value.InexactFloat64()
		if req.Signed && t.Type == domain.TransactionTypeExpense {
			value = -value
		}
		sums[util.DayKey(t.Date, series.loc)] += value
	}

	data := make([]domain.ReportRow, 0, len(series.days))
	for _, day := range series.days {
		data = append(data, domain.ReportRow{day, sums[day]})
	}

	return &domain.SpendingFlowReport{
		Header: []string{"Date", "Money"},
		Data:   data,
	}, nil
}

// BuildCategoryBreakdownReport sums matching transaction values per day and
// category. Columns cover every category visible to the user, with or
// without data; uncategorized transactions have no column and are skipped.
func (s *ReportService) BuildCategoryBreakdownReport(userID uuid.UUID, req domain.ReportRequest) (*domain.CategoryBreakdownReport, error) {
	series, err := s.collect(userID, req)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListForUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list categories for report")
		return nil, err
	}

	header := make([]string, 0, len(categories)+1)
	header = append(header, "Date")
	for _, c := range categories {
		header = append(header, c.Name)
	}

	sums := make(map[string]map[int32]float64)
	for _, t := range series.transactions {
		if t.CategoryID == nil {
			continue
		}
		day := util.DayKey(t.Date, series.loc)
		if sums[day] == nil {
			sums[day] = make(map[int32]float64)
		}
		sums[day][*t.CategoryID] += t.Value.InexactFloat64()
	}

	data := make([]domain.ReportRow, 0, len(series.days))
	for _, day := range series.days {
		row := make(domain.ReportRow, 0, len(categories)+1)
		row = append(row, day)
		for _, c := range categories {
			row = append(row, util.FormatAmount(sums[day][c.ID]))
		}
		data = append(data, row)
	}

	return &domain.CategoryBreakdownReport{
		Header: header,
		Data:   data,
	}, nil
}

// collect validates the request, runs the single storage query and derives
// the list of day buckets covering the window.
func (s *ReportService) collect(userID uuid.UUID, req domain.ReportRequest) (*reportSeries, error) {
	if err := s.authorize(userID, req); err != nil {
		return nil, err
	}
	if req.Type != nil && !req.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	loc, err := util.ResolveLocation(deref(req.Timezone))
	if err != nil {
		return nil, err
	}

	filter := domain.ReportFilter{
		WalletIDs:   req.WalletIDs,
		CategoryIDs: req.CategoryIDs,
		Type:        req.Type,
		EndDate:     util.EndOfDayUTC(s.now()),
	}
	if req.StartDate != nil {
		start, err := util.ParseReportTime(*req.StartDate)
		if err != nil {
			return nil, err
		}
		filter.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := util.ParseReportTime(*req.EndDate)
		if err != nil {
			return nil, err
		}
		filter.EndDate = end
	}

	transactions, err := s.transactionRepo.FindMatching(filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to query report transactions")
		return nil, err
	}

	series := &reportSeries{transactions: transactions, loc: loc}

	var start time.Time
	switch {
	case filter.StartDate != nil:
		start = *filter.StartDate
	case len(transactions) == 0:
		// Nothing to anchor the window on
		return series, nil
	default:
		start = earliest(transactions)
	}

	if span := util.DaySpan(start, filter.EndDate, loc); span > MaxReportDays {
		return nil, fmt.Errorf("%w: %d days, at most %d", domain.ErrReportWindowTooLong, span, MaxReportDays)
	}
	series.days = util.DayKeys(start, filter.EndDate, loc)
	return series, nil
}

// authorize checks that every requested wallet is owned by the user and
// every requested category is global or owned by the user
func (s *ReportService) authorize(userID uuid.UUID, req domain.ReportRequest) error {
	if len(req.WalletIDs) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrWalletsRequired)
	}
	for _, id := range req.WalletIDs {
		wallet, err := s.walletRepo.GetByID(id)
		if err != nil {
			return err
		}
		if !wallet.OwnedBy(userID) {
			return domain.ErrForbidden
		}
	}
	for _, id := range req.CategoryIDs {
		category, err := s.categoryRepo.GetByID(id)
		if err != nil {
			return err
		}
		if !category.VisibleTo(userID) {
			return domain.ErrForbidden
		}
	}
	return nil
}

func earliest(transactions []*domain.Transaction) time.Time {
	first := transactions[0].Date
	for _, t := range transactions[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
	}
	return first
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
