package catalog

import "math"

// InvestmentInput describes a financed purchase let out for rent.
// InterestRate is a yearly percentage, LoanTermYears whole years.
type InvestmentInput struct {
	PropertyPrice  float64 `json:"propertyPrice"`
	DownPayment    float64 `json:"downPayment"`
	InterestRate   float64 `json:"interestRate"`
	LoanTermYears  int     `json:"loanTerm"`
	MonthlyRental  float64 `json:"rentalIncome"`
	AnnualExpenses float64 `json:"annualExpenses"`
}

// DefaultInvestment is the calculator's starting point.
var DefaultInvestment = InvestmentInput{
	PropertyPrice:  500000,
	DownPayment:    100000,
	InterestRate:   6.5,
	LoanTermYears:  20,
	MonthlyRental:  3000,
	AnnualExpenses: 6000,
}

// InvestmentResult amounts are rounded to whole rupees, ROI to two decimals.
type InvestmentResult struct {
	LoanAmount    float64 `json:"loanAmount"`
	MonthlyEMI    float64 `json:"monthlyEMI"`
	TotalLoanCost float64 `json:"totalLoanCost"`
	TotalInterest float64 `json:"totalInterest"`
	MonthlyProfit float64 `json:"monthlyProfit"`
	YearlyProfit  float64 `json:"yearlyProfit"`
	ROI           float64 `json:"roi"`
}

// Calculate runs the loan and rental analysis. A zero interest rate spreads
// the principal evenly; a term of zero or less means no instalments.
func Calculate(in InvestmentInput) InvestmentResult {
	principal := in.PropertyPrice - in.DownPayment
	n := float64(in.LoanTermYears * 12)
	r := in.InterestRate / 100 / 12

	var emi float64
	switch {
	case n <= 0:
	case r == 0:
		emi = principal / n
	default:
		f := math.Pow(1+r, n)
		emi = principal * r * f / (f - 1)
	}

	totalCost := emi * n
	monthlyProfit := in.MonthlyRental - in.AnnualExpenses/12 - emi
	yearlyProfit := in.MonthlyRental*12 - in.AnnualExpenses - emi*12

	var roi float64
	if in.PropertyPrice > 0 {
		roi = yearlyProfit / in.PropertyPrice * 100
	}
	return InvestmentResult{
		LoanAmount:    math.Round(principal),
		MonthlyEMI:    math.Round(emi),
		TotalLoanCost: math.Round(totalCost),
		TotalInterest: math.Round(totalCost - principal),
		MonthlyProfit: math.Round(monthlyProfit),
		YearlyProfit:  math.Round(yearlyProfit),
		ROI:           math.Round(roi*100) / 100,
	}
}
