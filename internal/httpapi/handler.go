package httpapi

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"github.com/fekuna/omnipos-community-store/internal/branch"
	branchdto "github.com/fekuna/omnipos-community-store/internal/branch/dto"
	"github.com/fekuna/omnipos-community-store/internal/catalog"
	catalogdto "github.com/fekuna/omnipos-community-store/internal/catalog/dto"
	"github.com/fekuna/omnipos-community-store/internal/credit"
	creditdto "github.com/fekuna/omnipos-community-store/internal/credit/dto"
	"github.com/fekuna/omnipos-community-store/internal/member"
	memberdto "github.com/fekuna/omnipos-community-store/internal/member/dto"
	"github.com/fekuna/omnipos-community-store/internal/ration"
	rationdto "github.com/fekuna/omnipos-community-store/internal/ration/dto"
	"github.com/fekuna/omnipos-community-store/internal/transaction"
	txdto "github.com/fekuna/omnipos-community-store/internal/transaction/dto"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// Handler serves the JSON API over the store's use cases.
type Handler struct {
	transactions transaction.UseCase
	rations      ration.UseCase
	credits      credit.UseCase
	members      member.UseCase
	items        catalog.UseCase
	branches     branch.UseCase
	logger       logger.ZapLogger
}

type UseCases struct {
	Transactions transaction.UseCase
	Rations      ration.UseCase
	Credits      credit.UseCase
	Members      member.UseCase
	Items        catalog.UseCase
	Branches     branch.UseCase
}

func NewHandler(uc UseCases, log logger.ZapLogger) *Handler {
	return &Handler{
		transactions: uc.Transactions,
		rations:      uc.Rations,
		credits:      uc.Credits,
		members:      uc.Members,
		items:        uc.Items,
		branches:     uc.Branches,
		logger:       log,
	}
}

type listResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// RecordPurchase handles POST /purchases
func (h *Handler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	var input txdto.PurchaseInput
	if !h.decode(w, r, &input) {
		return
	}
	if input.BranchID == "" {
		input.BranchID = branch.GetBranchID(r.Context())
	}

	p, err := h.transactions.RecordPurchase(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, p)
}

// RecordSale handles POST /sales
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var input txdto.SaleInput
	if !h.decode(w, r, &input) {
		return
	}
	if input.BranchID == "" {
		input.BranchID = branch.GetBranchID(r.Context())
	}

	s, err := h.transactions.RecordSale(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, s)
}

// ListPurchases handles GET /members/{id}/purchases
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.transactions.ListPurchases(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: purchases, Total: len(purchases)})
}

// ListSales handles GET /members/{id}/sales
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.transactions.ListSales(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: sales, Total: len(sales)})
}

// RenewRationCard handles POST /ration-cards/renew
func (h *Handler) RenewRationCard(w http.ResponseWriter, r *http.Request) {
	var input rationdto.RenewCardInput
	if !h.decode(w, r, &input) {
		return
	}

	card, err := h.rations.RenewCard(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, card)
}

// GetRationCard handles GET /members/{id}/ration-cards/{year}
func (h *Handler) GetRationCard(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.respondError(w, apperr.NewValidationError("year", "must be a number"))
		return
	}

	card, err := h.rations.GetCard(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if card == nil {
		h.respondError(w, apperr.ErrCardNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, card)
}

// ListRationCards handles GET /members/{id}/ration-cards
func (h *Handler) ListRationCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.rations.ListCards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: cards, Total: len(cards)})
}

// IssueCredit handles POST /credits
func (h *Handler) IssueCredit(w http.ResponseWriter, r *http.Request) {
	var input creditdto.IssueCreditInput
	if !h.decode(w, r, &input) {
		return
	}

	c, err := h.credits.IssueCredit(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, c)
}

// ListCredits handles GET /members/{id}/credits
func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	lines, err := h.credits.ListLines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: lines, Total: len(lines)})
}

// CreateMember handles POST /members
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var input memberdto.CreateMemberInput
	if !h.decode(w, r, &input) {
		return
	}

	m, err := h.members.CreateMember(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, m)
}

// GetMember handles GET /members/{id}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.members.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, m)
}

// ListMembers handles GET /members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListMembers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: members, Total: len(members)})
}

// CreateItem handles POST /items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var input catalogdto.CreateItemInput
	if !h.decode(w, r, &input) {
		return
	}

	it, err := h.items.CreateItem(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, it)
}

// GetItem handles GET /items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, it)
}

// ListItems handles GET /items?type=&search=&page=&pageSize=
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	items, total, err := h.items.ListItems(r.Context(), &catalogdto.ItemFilters{
		Type:        q.Get("type"),
		SearchQuery: q.Get("search"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

// CreateBranch handles POST /branches
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var input branchdto.CreateBranchInput
	if !h.decode(w, r, &input) {
		return
	}

	b, err := h.branches.CreateBranch(r.Context(), &input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, b)
}

// ListBranches handles GET /branches
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branches.ListBranches(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, listResponse{Items: branches, Total: len(branches)})
}
