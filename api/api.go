package api

import (
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/kurumiimari/vendue/auction"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/escrow"
	"github.com/kurumiimari/vendue/ledger"
	"github.com/kurumiimari/vendue/log"
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"net/http"
	"os"
)

const (
	APIKeyHeader    = "X-API-Key"
	RequestIDHeader = "X-Request-ID"

	// FaucetRate limits airdrops per client IP, in limiter's
	// "<limit>-<period>" format.
	FaucetRate = "10-M"
)

var ErrTooManyRequests = errors.New("too many requests")

var apiLogger = log.ModuleLogger("api")

type ErrorResponse struct {
	Msg string `json:"msg"`
}

var invalidJSONRes = &ErrorResponse{
	Msg: "Mal-formed JSON payload.",
}

var errorCodes = []struct {
	err  error
	code int
}{
	{chain.ErrInvalidSignature, 401},
	{ledger.ErrUnauthorized, 403},
	{ledger.ErrFaucetDisabled, 403},
	{auction.ErrNotAssetOwner, 403},
	{escrow.ErrNotAssetOwner, 403},
	{escrow.ErrNotMaker, 403},
	{escrow.ErrNotSeller, 403},
	{ledger.ErrAccountNotFound, 404},
	{ledger.ErrHoldingNotFound, 404},
	{ledger.ErrAssetNotFound, 404},
	{auction.ErrAuctionInactive, 409},
	{auction.ErrAuctionEnded, 409},
	{auction.ErrAuctionNotEnded, 409},
	{escrow.ErrListingClosed, 409},
	{ledger.ErrReplayedInstruction, 409},
	{ledger.ErrAccountExists, 409},
	{ledger.ErrAssetExists, 409},
	{ledger.ErrHoldingNotEmpty, 409},
	{auction.ErrBidTooLow, 400},
	{auction.ErrInvalidPreviousBidder, 400},
	{auction.ErrInvalidWinnerAccount, 400},
	{auction.ErrInvalidSellerAccount, 400},
	{auction.ErrInvalidTiming, 400},
	{auction.ErrMalformedRecord, 400},
	{escrow.ErrInvalidAmount, 400},
	{escrow.ErrMalformedRecord, 400},
	{ledger.ErrInsufficientFunds, 400},
	{ledger.ErrAssetMismatch, 400},
	{ledger.ErrAmountOverflow, 400},
	{chain.ErrInvalidAddress, 400},
	{node.ErrOpMismatch, 400},
}

// StatusCode maps a domain error to the HTTP status it is reported with.
func StatusCode(err error) int {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return 500
}

func UnmarshalRequestJSON(w http.ResponseWriter, r *http.Request, in interface{}) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(in); err == nil {
		return true
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(400)
	MarshalResponseJSON(w, invalidJSONRes)
	return false
}

func MarshalErrorJSON(w http.ResponseWriter, err error, code int) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	if code >= 500 {
		apiLogger.Error("error handling request", "err", err)
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		apiLogger.Debug("rejected request", "code", code, "err", err)
	}
	MarshalResponseJSON(w, &ErrorResponse{Msg: err.Error()})
}

// MarshalDomainErrorJSON reports err with the status from StatusCode.
func MarshalDomainErrorJSON(w http.ResponseWriter, err error) {
	MarshalErrorJSON(w, err, StatusCode(err))
}

func MarshalResponseJSON(w http.ResponseWriter, out interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	data, err := json.Marshal(out)
	if err != nil {
		apiLogger.Panic("error marshaling JSON response, shutting down", "err", err)
	}
	if _, err := w.Write(data); err != nil {
		apiLogger.Warning("error writing JSON response")
	}
}

type API struct {
	network *chain.Network
	node    *node.Node
	apiKey  string
}

func NewAPI(network *chain.Network, service *node.Node, apiKey string) http.Handler {
	api := &API{
		network: network,
		node:    service,
		apiKey:  apiKey,
	}
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(api.apiKeyMiddleware)
	getOnly(r.Handle("/metrics", promhttp.Handler()))

	v1 := r.PathPrefix("/api/v1").Subrouter()
	getOnly(v1.HandleFunc("/status", api.Status))
	getOnly(v1.HandleFunc("/accounts/{address}", api.HandleAccountGET))
	jsonPostOnly(v1.Handle("/accounts/{address}/airdrop", faucetLimiter().Handler(http.HandlerFunc(api.HandleAirdropPOST))))
	jsonPostOnly(v1.HandleFunc("/transfers", api.HandleTransferPOST))
	jsonPostOnly(v1.HandleFunc("/assets", api.HandleMintAssetPOST))

	getOnly(v1.HandleFunc("/auctions", api.HandleAuctionsGET))
	jsonPostOnly(v1.HandleFunc("/auctions", api.HandleAuctionsPOST))
	getOnly(v1.HandleFunc("/auctions/{address}", api.HandleAuctionGET))
	jsonPostOnly(v1.HandleFunc("/auctions/{address}/bids", api.HandleBidPOST))
	jsonPostOnly(v1.HandleFunc("/auctions/{address}/finalize", api.HandleFinalizePOST))

	getOnly(v1.HandleFunc("/escrows", api.HandleEscrowsGET))
	jsonPostOnly(v1.HandleFunc("/escrows", api.HandleEscrowsPOST))
	getOnly(v1.HandleFunc("/escrows/{address}", api.HandleEscrowGET))
	jsonPostOnly(v1.HandleFunc("/escrows/{address}/take", api.HandleEscrowTakePOST))
	jsonPostOnly(v1.HandleFunc("/escrows/{address}/refund", api.HandleEscrowRefundPOST))

	getOnly(v1.HandleFunc("/shelf", api.HandleShelfGET))
	jsonPostOnly(v1.HandleFunc("/shelf", api.HandleShelfPOST))
	getOnly(v1.HandleFunc("/shelf/{address}", api.HandleShelfItemGET))
	jsonPostOnly(v1.HandleFunc("/shelf/{address}/buy", api.HandleShelfBuyPOST))
	jsonPostOnly(v1.HandleFunc("/shelf/{address}/delist", api.HandleShelfDelistPOST))
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(r)
}

func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	status, err := a.node.Status()
	if err != nil {
		MarshalErrorJSON(w, err, 500)
		return
	}
	MarshalResponseJSON(w, status)
}

func (a *API) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		providedKey := r.Header.Get(APIKeyHeader)
		if providedKey != a.apiKey {
			MarshalErrorJSON(w, errors.New("invalid API key"), 401)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		apiLogger.Trace("handling request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func faucetLimiter() *mstdlib.Middleware {
	rate, err := limiter.NewRateFromFormatted(FaucetRate)
	if err != nil {
		panic(err)
	}
	return mstdlib.NewMiddleware(
		limiter.New(memory.NewStore(), rate),
		mstdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			MarshalErrorJSON(w, ErrTooManyRequests, http.StatusTooManyRequests)
		}),
	)
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	apiLogger.Error("recovered from panic", "err", fmt.Sprint(v...))
}

func getOnly(route *mux.Route) {
	route.Methods("GET")
}

func postOnly(route *mux.Route) *mux.Route {
	route.Methods("POST")
	return route
}

func jsonPostOnly(route *mux.Route) {
	postOnly(route).
		Headers("Content-Type", "application/json")
}
