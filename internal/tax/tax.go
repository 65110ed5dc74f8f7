// Package tax implements GST/TDS/Cess arithmetic for invoices and expenses.
// All functions are pure; monetary outputs are rounded to 2 decimal places.
package tax

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("tax: invalid input")

// Default statutory rates, in percent.
const (
	DefaultGSTRate           = 18.0
	DefaultTDSRate           = 10.0
	DefaultTDSIndividualRate = 7.5
)

// Tolerance accepted when validating that a breakdown sums to its totals.
const tolerance = 0.01

// InvoiceInput describes one taxable invoice amount.
type InvoiceInput struct {
	Subtotal float64 `json:"subtotal"`
	// IsInterState selects IGST over the CGST+SGST split.
	IsInterState bool `json:"is_inter_state"`
	// IsTDSApplicable enables withholding on the subtotal.
	IsTDSApplicable bool `json:"is_tds_applicable"`
	// IsIndividual selects the reduced TDS rate for individual clients.
	IsIndividual bool `json:"is_individual"`
	// GSTRate overrides DefaultGSTRate when > 0.
	GSTRate float64 `json:"gst_rate"`
	// TDSRate overrides the applicable TDS default when > 0.
	TDSRate float64 `json:"tds_rate"`
	// CessRate is applied on the subtotal when > 0.
	CessRate float64 `json:"cess_rate"`
}

// ExpenseInput describes one reimbursable expense amount.
type ExpenseInput struct {
	Amount       float64 `json:"amount"`
	IsInterState bool    `json:"is_inter_state"`
	GSTRate      float64 `json:"gst_rate"`
	CessRate     float64 `json:"cess_rate"`
}

// Line is one component of the tax breakdown.
type Line struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Result is the derived, stateless value object for one calculation.
// Invariants: Subtotal+TotalTax == GrandTotal and CGST+SGST+IGST == GST,
// both within rounding tolerance. TDS is a withholding, not a charge, so it
// reduces NetPayable without entering TotalTax.
type Result struct {
	Subtotal   float64 `json:"subtotal"`
	GSTAmount  float64 `json:"gst_amount"`
	CGSTAmount float64 `json:"cgst_amount"`
	SGSTAmount float64 `json:"sgst_amount"`
	IGSTAmount float64 `json:"igst_amount"`
	TDSAmount  float64 `json:"tds_amount"`
	CessAmount float64 `json:"cess_amount"`
	TotalTax   float64 `json:"total_tax"`
	GrandTotal float64 `json:"grand_total"`
	NetPayable float64 `json:"net_payable"`
	Breakdown  []Line  `json:"breakdown"`
}

// CalculateInvoiceTax computes the full tax breakdown for an invoice.
// Intra-state amounts split GST evenly into CGST and SGST; inter-state
// amounts charge the whole rate as IGST.
func CalculateInvoiceTax(in InvoiceInput) (Result, error) {
	if err := checkAmount("subtotal", in.Subtotal); err != nil {
		return Result{}, err
	}
	gstRate := in.GSTRate
	if gstRate == 0 {
		gstRate = DefaultGSTRate
	}
	tdsRate := in.TDSRate
	if tdsRate == 0 {
		tdsRate = DefaultTDSRate
		if in.IsIndividual {
			tdsRate = DefaultTDSIndividualRate
		}
	}
	for name, rate := range map[string]float64{"gst rate": gstRate, "tds rate": tdsRate, "cess rate": in.CessRate} {
		if err := checkAmount(name, rate); err != nil {
			return Result{}, err
		}
	}

	res := Result{Subtotal: round2(in.Subtotal)}

	gst := in.Subtotal * gstRate / 100
	if in.IsInterState {
		res.IGSTAmount = round2(gst)
		res.GSTAmount = res.IGSTAmount
		res.Breakdown = append(res.Breakdown, Line{Name: "IGST", Rate: gstRate, Amount: res.IGSTAmount})
	} else {
		half := gstRate / 2
		res.CGSTAmount = round2(in.Subtotal * half / 100)
		res.SGSTAmount = round2(in.Subtotal * half / 100)
		res.GSTAmount = round2(res.CGSTAmount + res.SGSTAmount)
		res.Breakdown = append(res.Breakdown,
			Line{Name: "CGST", Rate: half, Amount: res.CGSTAmount},
			Line{Name: "SGST", Rate: half, Amount: res.SGSTAmount},
		)
	}

	if in.CessRate > 0 {
		res.CessAmount = round2(in.Subtotal * in.CessRate / 100)
		res.Breakdown = append(res.Breakdown, Line{Name: "Cess", Rate: in.CessRate, Amount: res.CessAmount})
	}

	res.TotalTax = round2(res.GSTAmount + res.CessAmount)
	res.GrandTotal = round2(res.Subtotal + res.TotalTax)

	if in.IsTDSApplicable {
		res.TDSAmount = round2(in.Subtotal * tdsRate / 100)
		res.Breakdown = append(res.Breakdown, Line{Name: "TDS", Rate: tdsRate, Amount: -res.TDSAmount})
	}
	res.NetPayable = round2(res.GrandTotal - res.TDSAmount)

	return res, nil
}

// CalculateExpenseTax computes GST and Cess on a reimbursable expense.
// Expenses never attract TDS.
func CalculateExpenseTax(in ExpenseInput) (Result, error) {
	return CalculateInvoiceTax(InvoiceInput{
		Subtotal:     in.Amount,
		IsInterState: in.IsInterState,
		GSTRate:      in.GSTRate,
		CessRate:     in.CessRate,
	})
}

// Validate checks a result for self-consistency within rounding tolerance.
// Any result produced by the calculators above validates; a corrupted total
// does not.
func Validate(r Result) bool {
	if math.Abs(r.Subtotal+r.TotalTax-r.GrandTotal) > tolerance {
		return false
	}
	if math.Abs(r.CGSTAmount+r.SGSTAmount+r.IGSTAmount-r.GSTAmount) > tolerance {
		return false
	}
	if math.Abs(r.GSTAmount+r.CessAmount-r.TotalTax) > tolerance {
		return false
	}
	if math.Abs(r.GrandTotal-r.TDSAmount-r.NetPayable) > tolerance {
		return false
	}
	return true
}

func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidInput, name)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
