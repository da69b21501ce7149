package tools

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"finchat/consts"
	"finchat/internal/analysis"
	"finchat/internal/dataflows"
	"finchat/internal/interp"
)

// Registry owns the provider handle and exposes every tool the planner
// can name. Fetch tools return payloads for the conversation's data map;
// analysis tools return Results.
type Registry struct {
	provider dataflows.Provider
	log      *zap.Logger
}

// NewRegistry creates a registry over a market-data provider.
func NewRegistry(provider dataflows.Provider, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{provider: provider, log: log}
}

// GetCompanyData fetches the company snapshot for one ticker.
func (r *Registry) GetCompanyData(ctx context.Context, symbol string) (*dataflows.Payload, error) {
	info, err := r.provider.CompanyInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &dataflows.Payload{Kind: dataflows.PayloadCompany, Company: info}, nil
}

// GetFinancialStatements fetches the statement set for one ticker.
func (r *Registry) GetFinancialStatements(ctx context.Context, symbol string) (*dataflows.Payload, error) {
	set, err := r.provider.Statements(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &dataflows.Payload{Kind: dataflows.PayloadStatements, Statements: set}, nil
}

// GetPeerComparisonData fetches snapshots for the main ticker and its
// peers. Tickers whose fetch fails land in Missing; the payload errors
// only when the main ticker itself cannot be fetched.
func (r *Registry) GetPeerComparisonData(ctx context.Context, main string, peers []string) (*dataflows.Payload, error) {
	if len(peers) == 0 {
		peers = dataflows.SuggestPeers(main)
		r.log.Debug("no peers named, using sector peers",
			zap.String("ticker", main), zap.Strings("peers", peers))
	}
	data := &dataflows.ComparisonData{
		MainTicker:  main,
		PeerTickers: peers,
		Companies:   make(map[string]*dataflows.CompanyInfo),
		FetchedAt:   time.Now(),
	}

	for _, ticker := range append([]string{main}, peers...) {
		info, err := r.provider.CompanyInfo(ctx, ticker)
		if err != nil {
			r.log.Warn("comparison fetch failed",
				zap.String("ticker", ticker), zap.Error(err))
			data.Missing = append(data.Missing, ticker)
			continue
		}
		data.Companies[ticker] = info
	}
	if _, ok := data.Companies[main]; !ok {
		return nil, fmt.Errorf("no data for main ticker %s", main)
	}

	return &dataflows.Payload{Kind: dataflows.PayloadComparison, Comparison: data}, nil
}

// AnalyzeCompanyProfile runs the profile analysis over a company payload.
func (r *Registry) AnalyzeCompanyProfile(payload *dataflows.Payload) Result {
	return r.invoke(consts.ToolAnalyzeCompanyProfile, func() (Result, error) {
		if payload == nil || payload.Company == nil {
			return Result{}, fmt.Errorf("no company data available")
		}
		report, err := analysis.AnalyzeProfile(payload.Company)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Success: true,
			Tool:    consts.ToolAnalyzeCompanyProfile,
			Kind:    KindProfile,
			Profile: report,
		}, nil
	})
}

// AnalyzeFinancialMetrics runs the metrics analysis over a company payload.
func (r *Registry) AnalyzeFinancialMetrics(payload *dataflows.Payload) Result {
	return r.invoke(consts.ToolAnalyzeFinancialMetrics, func() (Result, error) {
		if payload == nil || payload.Company == nil {
			return Result{}, fmt.Errorf("no company data available")
		}
		report, err := analysis.AnalyzeMetrics(payload.Company)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Success: true,
			Tool:    consts.ToolAnalyzeFinancialMetrics,
			Kind:    KindMetrics,
			Metrics: report,
		}, nil
	})
}

// AnalyzeFinancialStatement runs the statement analysis for the
// statement kind matching the interpreted analysis type.
func (r *Registry) AnalyzeFinancialStatement(payload *dataflows.Payload, analysisType interp.AnalysisType) Result {
	return r.invoke(consts.ToolAnalyzeFinancialStatement, func() (Result, error) {
		if payload == nil || payload.Statements == nil {
			return Result{}, fmt.Errorf("no statement data available")
		}
		kind, err := statementKind(analysisType)
		if err != nil {
			return Result{}, err
		}
		report, err := analysis.AnalyzeStatement(payload.Statements, kind)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Success:   true,
			Tool:      consts.ToolAnalyzeFinancialStatement,
			Kind:      KindStatement,
			Statement: report,
		}, nil
	})
}

// CompareCompanies runs the peer comparison over a comparison payload.
func (r *Registry) CompareCompanies(payload *dataflows.Payload) Result {
	return r.invoke(consts.ToolCompareCompanies, func() (Result, error) {
		if payload == nil || payload.Comparison == nil {
			return Result{}, fmt.Errorf("no comparison data available")
		}
		report, err := analysis.AnalyzeComparison(payload.Comparison)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Success:    true,
			Tool:       consts.ToolCompareCompanies,
			Kind:       KindComparison,
			Comparison: report,
		}, nil
	})
}

// GetAnalystRecommendations fetches and analyzes the recommendation
// trend for one ticker. This tool needs no prior collection step.
func (r *Registry) GetAnalystRecommendations(ctx context.Context, symbol string) Result {
	return r.invoke(consts.ToolGetAnalystRecommendations, func() (Result, error) {
		trend, err := r.provider.Recommendations(ctx, symbol)
		if err != nil {
			return Result{}, err
		}
		report, err := analysis.AnalyzeRecommendations(trend)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Success:         true,
			Tool:            consts.ToolGetAnalystRecommendations,
			Kind:            KindRecommendations,
			Recommendations: report,
		}, nil
	})
}

// invoke runs a tool body, converting both errors and panics into failed
// Results so a single bad tool never aborts the dispatch loop.
func (r *Registry) invoke(tool string, fn func() (Result, error)) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tool panicked",
				zap.String("tool", tool), zap.Any("panic", rec))
			result = Failuref(tool, "tool %s panicked: %v", tool, rec)
		}
	}()

	result, err := fn()
	if err != nil {
		r.log.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
		return Failure(tool, err)
	}
	return result
}

func statementKind(analysisType interp.AnalysisType) (dataflows.StatementKind, error) {
	switch analysisType {
	case interp.AnalysisIncomeStatement:
		return dataflows.IncomeStatement, nil
	case interp.AnalysisBalanceSheet:
		return dataflows.BalanceSheet, nil
	case interp.AnalysisCashFlow:
		return dataflows.CashFlow, nil
	}
	return "", fmt.Errorf("analysis type %q is not a statement type", analysisType)
}
