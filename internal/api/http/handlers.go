package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type QRGenerator interface {
	Generate(orderNumber int) ([]byte, error)
}

type Handler struct {
	Backend *Backend
	Hub     *FeedHub
	QR      QRGenerator
	log     logrus.FieldLogger
}

func NewHandler(backend *Backend, hub *FeedHub, qr QRGenerator, logger logrus.FieldLogger) *Handler {
	return &Handler{
		Backend: backend,
		Hub:     hub,
		QR:      qr,
		log:     logging.Component(logger, "stub-api"),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/ingredients", h.getIngredients).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/auth/user", h.getUser).Methods("GET")
	r.HandleFunc("/api/auth/user", h.updateUser).Methods("PATCH")

	r.HandleFunc("/api/orders/all", h.getFeed).Methods("GET")
	r.HandleFunc("/api/orders", h.getMyOrders).Methods("GET")
	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders/{number:[0-9]+}", h.getOrderByNumber).Methods("GET")
	r.HandleFunc("/api/orders/{number:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")

	if h.Hub != nil {
		r.Handle("/orders/all", h.Hub).Methods("GET")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"success": false, "message": err.Error()})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "stub-api",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getIngredients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": h.Backend.Ingredients()})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var data domain.RegisterData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	session, err := h.Backend.Register(data)
	if err != nil {
		status := http.StatusForbidden
		if !errors.Is(err, ErrUserExists) && !errors.Is(err, ErrFieldsRequired) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}
	h.log.WithField("email", session.User.Email).Info("user registered")
	writeJSON(w, http.StatusOK, authResponse(session))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var data domain.LoginData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	session, err := h.Backend.Login(data)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse(session))
}

func authResponse(session domain.AuthSession) map[string]any {
	return map[string]any{
		"success":      true,
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"user":         session.User,
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Backend.Logout(body.Token); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Successful logout"})
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (Account, bool) {
	acc, err := h.Backend.Authenticate(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, ErrUnauthorized)
		return Account{}, false
	}
	return acc, true
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": acc.User})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := h.Backend.UpdateUser(acc.ID, patch)
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": updated})
}

func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, feedResponse(h.Backend.Feed()))
}

func feedResponse(feed domain.Feed) map[string]any {
	return map[string]any{
		"success":    true,
		"orders":     feed.Orders,
		"total":      feed.Total,
		"totalToday": feed.TotalToday,
	}
}

func (h *Handler) getMyOrders(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	orders := h.Backend.OrdersOf(acc.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number, _ := strconv.Atoi(mux.Vars(r)["number"])
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": h.Backend.OrderByNumber(number)})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	var body struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	submitted, err := h.Backend.CreateOrder(acc.ID, body.Ingredients)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h.log.WithFields(logrus.Fields{"number": submitted.Order.Number, "email": acc.User.Email}).Info("order created")
	if h.Hub != nil {
		h.Hub.Broadcast(h.Backend.Feed())
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "name": submitted.Name, "order": submitted.Order})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	number, _ := strconv.Atoi(mux.Vars(r)["number"])
	if h.QR == nil || len(h.Backend.OrderByNumber(number)) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	png, err := h.QR.Generate(number)
	if err != nil {
		h.log.WithError(err).Warn("failed to generate QR code")
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
