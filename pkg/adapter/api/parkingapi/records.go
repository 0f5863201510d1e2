// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parkingapi

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/parksmart/parknow/pkg/core/model"
)

// envelope is the response body of the stations endpoint.
// Data is a pointer, so a missing data field can be detected.
// Records are kept raw, so each one may be decoded and validated on
// its own and a malformed record does not reject the whole payload.
type envelope struct {
	Data *[]json.RawMessage `json:"data"`
}

// rawStation is the wire format of a station record. Only ownerID is
// required; other fields are optional and take their zero values.
// Nested lists are kept raw and their entries are decoded one by one,
// so a bad pricing or review entry is dropped without its station.
type rawStation struct {
	OwnerID      text      `json:"ownerID" validate:"required"`
	OwnerName    *string   `json:"owner_name"`
	OwnerAddress *string   `json:"owner_address"`
	Latitude     looseText `json:"latitude"`
	Longitude    looseText `json:"longitude"`
	Pricing      entries   `json:"pricing"`
	Reviews      entries   `json:"reviews"`
	Plots        entries   `json:"plots"`
	Images       entries   `json:"images"`
}

type rawPricing struct {
	VehicleType string `json:"vehicle_type" validate:"required"`
	HourlyRate  number `json:"hourly_rate" validate:"gte=0"`
}

type rawReview struct {
	Rating number `json:"rating" validate:"gte=0,lte=5"`
}

// rawImage accepts either a plain path string or an object which keeps
// the path in its image field.
type rawImage struct {
	Path string
}

func (ri *rawImage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Image string `json:"image"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		ri.Path = obj.Image
		return nil
	}
	var t text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	ri.Path = string(t)
	return nil
}

// entries is a raw JSON list. A null is decoded as an empty list and
// any other non-list value is kept as one (most likely bad) entry.
type entries []json.RawMessage

func (e *entries) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*e = nil
		return nil
	case b[0] == '[':
		var list []json.RawMessage
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*e = list
		return nil
	}
	*e = entries{json.RawMessage(append([]byte(nil), b...))}
	return nil
}

// text is a string which may be encoded as a JSON string, number, or
// null. Numbers keep their literal representation and null is decoded
// as an empty string.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*t = text(b)
	default:
		return fmt.Errorf("expected string or number, got %q", b)
	}
	return nil
}

// looseText is a text which never fails to decode. Other JSON values,
// such as booleans or objects, keep their literal representation, so
// a station coordinate like true stays unparseable instead of
// rejecting its whole record.
type looseText string

func (lt *looseText) UnmarshalJSON(b []byte) error {
	var t text
	if err := t.UnmarshalJSON(b); err != nil {
		*lt = looseText(bytes.TrimSpace(b))
		return nil
	}
	*lt = looseText(t)
	return nil
}

// number is a float64 which may be encoded as a JSON number, a decimal
// string, or null (decoded as zero).
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var t text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	if t == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return fmt.Errorf("parsing %q as number: %w", t, err)
	}
	*n = number(f)
	return nil
}

// decodeEntries decodes and validates each raw entry as a T. Entries
// which fail are logged and skipped; the rest keep their order.
func decodeEntries[T any](
	ctx context.Context, v *validator.Validate,
	ownerID, field string, raws entries,
) []T {
	decoded := make([]T, 0, len(raws))
	for i, raw := range raws {
		var t T
		err := json.Unmarshal(raw, &t)
		if err == nil {
			err = v.Struct(&t)
		}
		if err != nil {
			log.Warn(ctx, "skipped invalid station entry",
				slog.String("owner_id", ownerID),
				slog.String("field", field),
				slog.Int("index", i),
				log.Err("err", err),
			)
			continue
		}
		decoded = append(decoded, t)
	}
	return decoded
}

// toModel converts the validated rs record into a model.Station.
// Its nested entries are decoded and validated by v on the way.
func (rs *rawStation) toModel(
	ctx context.Context, v *validator.Validate,
) model.Station {
	id := string(rs.OwnerID)
	pricing := decodeEntries[rawPricing](ctx, v, id, "pricing", rs.Pricing)
	reviews := decodeEntries[rawReview](ctx, v, id, "reviews", rs.Reviews)
	images := decodeEntries[rawImage](ctx, v, id, "images", rs.Images)
	s := model.Station{
		OwnerID:   id,
		Latitude:  string(rs.Latitude),
		Longitude: string(rs.Longitude),
		Pricing:   make([]model.Pricing, 0, len(pricing)),
		Reviews:   make([]model.Review, 0, len(reviews)),
		Plots:     make([]model.Plot, 0, len(rs.Plots)),
		Images:    make([]model.Image, 0, len(images)),
	}
	if rs.OwnerName != nil {
		s.Name = *rs.OwnerName
	}
	if rs.OwnerAddress != nil {
		s.Address = *rs.OwnerAddress
	}
	for _, p := range pricing {
		s.Pricing = append(s.Pricing, model.Pricing{
			VehicleType: p.VehicleType,
			HourlyRate:  float64(p.HourlyRate),
		})
	}
	for _, r := range reviews {
		s.Reviews = append(s.Reviews, model.Review{Rating: float64(r.Rating)})
	}
	// plots are only counted, so any entry is one plot
	for _, raw := range rs.Plots {
		s.Plots = append(s.Plots, model.Plot{ID: plotID(raw)})
	}
	for _, img := range images {
		s.Images = append(s.Images, model.Image{Path: img.Path})
	}
	return s
}

// plotID extracts the id of an object plot entry or takes a scalar
// entry as the id itself.
func plotID(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID looseText `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err == nil {
			return string(obj.ID)
		}
		return ""
	}
	var id looseText
	_ = id.UnmarshalJSON(b)
	return string(id)
}
