package api

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/kurumiimari/vendue/auction"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const maxDurationSecs = int64(math.MaxInt64 / time.Second)

func GetIntFromQuery(query url.Values, key string, initial int) int {
	valStr := query.Get(key)
	if valStr == "" {
		return initial
	}
	valI, err := strconv.Atoi(valStr)
	if err != nil {
		return initial
	}
	return valI
}

func GetBoolFromQuery(query url.Values, key string, initial bool) bool {
	valStr := query.Get(key)
	if valStr == "" {
		return initial
	}
	valB, err := strconv.ParseBool(valStr)
	if err != nil {
		return initial
	}
	return valB
}

func PaginationQuery(count, offset int) url.Values {
	return url.Values{
		"count":  []string{strconv.Itoa(count)},
		"offset": []string{strconv.Itoa(offset)},
	}
}

// pageBounds clamps the count/offset query parameters to a slice of
// length n.
func pageBounds(query url.Values, n int) (int, int) {
	count := GetIntFromQuery(query, "count", 50)
	offset := GetIntFromQuery(query, "offset", 0)
	if count < 0 {
		count = 0
	}
	if offset < 0 || offset > n {
		offset = n
	}
	if count > n-offset {
		count = n - offset
	}
	return offset, offset + count
}

func addressVar(w http.ResponseWriter, r *http.Request) (*chain.Address, bool) {
	addr, err := chain.NewAddressFromBech32(mux.Vars(r)["address"])
	if err != nil {
		MarshalErrorJSON(w, errors.Wrap(chain.ErrInvalidAddress, "mal-formed address in path"), 400)
		return nil, false
	}
	return addr, true
}

// readSigned verifies a SignedRequest for op and decodes its args.
func readSigned(w http.ResponseWriter, r *http.Request, op string, args interface{}) (*node.Signed, bool) {
	req := new(SignedRequest)
	if !UnmarshalRequestJSON(w, r, req) {
		return nil, false
	}

	signed, err := node.VerifyInstruction(req.Instruction(op), req.Signature)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return nil, false
	}

	if err := json.Unmarshal(req.Args, args); err != nil {
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(400)
		MarshalResponseJSON(w, invalidJSONRes)
		return nil, false
	}
	return signed, true
}

// requireTarget rejects signed args whose target does not match the
// address in the request path.
func requireTarget(w http.ResponseWriter, target *chain.Address, path *chain.Address) bool {
	if target == nil || !target.Equal(path) {
		MarshalErrorJSON(w, errors.New("signed target does not match request path"), 400)
		return false
	}
	return true
}

// secondsDuration converts a seconds count from a request body, rejecting
// values that time.Duration cannot hold.
func secondsDuration(secs int64) (time.Duration, error) {
	if secs < 0 || secs > maxDurationSecs {
		return 0, errors.Wrapf(auction.ErrInvalidTiming, "%d seconds is out of range", secs)
	}
	return time.Duration(secs) * time.Second, nil
}
