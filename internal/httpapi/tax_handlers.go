package httpapi

import (
	"errors"
	"net/http"

	"lexora.org/internal/auth"
	"lexora.org/internal/tax"
)

func (a *API) handleInvoiceTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermInvoiceView) {
		return
	}

	var in tax.InvoiceInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := tax.CalculateInvoiceTax(in)
	if err != nil {
		if errors.Is(err, tax.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, "invalid tax input")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "tax computation failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) handleExpenseTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermExpenseView) {
		return
	}

	var in tax.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := tax.CalculateExpenseTax(in)
	if err != nil {
		if errors.Is(err, tax.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, "invalid tax input")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "tax computation failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
