package parknowrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/parksmart/parknow/pkg/adapter/restful/gin/serdser"
	"github.com/parksmart/parknow/pkg/core/model"
	"github.com/parksmart/parknow/pkg/core/usecase/parknowuc"
)

type StrCoordinate struct {
	Lat string `form:"lat" binding:"omitempty,latitude"`
	Lng string `form:"lng" binding:"omitempty,longitude"`
}

func (sc StrCoordinate) ToModel() (c model.Coordinate, err error) {
	c.Lat, err = strconv.ParseFloat(sc.Lat, 64)
	if err != nil {
		return
	}
	c.Lon, err = strconv.ParseFloat(sc.Lng, 64)
	return
}

type rawViewReq struct {
	Query string `form:"q"`
	StrCoordinate
}

type rawLocateReq struct {
	StrCoordinate
}

type rawDistanceReq struct {
	Lat1 string `form:"lat1" binding:"required,latitude"`
	Lon1 string `form:"lon1" binding:"required,longitude"`
	Lat2 string `form:"lat2" binding:"required,latitude"`
	Lon2 string `form:"lon2" binding:"required,longitude"`
}

type viewReq struct {
	Query  string
	Device *model.Coordinate
}

type distanceReq struct {
	From, To model.Coordinate
}

// dserDevice converts the optional device coordinate. Both of lat and
// lng must be given together; errors are accumulated in errs.
func dserDevice(
	errs *map[string][]string, sc StrCoordinate,
) *model.Coordinate {
	if sc.Lat == "" && sc.Lng == "" {
		return nil
	}
	if !serdser.Assert(errs, sc.Lat != "" && sc.Lng != "", "lat/lng",
		"The lat and lng must be given together.") {
		return nil
	}
	c, err := sc.ToModel()
	if !serdser.Assert(errs, err == nil, "lat/lng", "Invalid lat/lng.") {
		return nil
	}
	return &c
}

func (rs *resource) DserViewReq(c *gin.Context) *viewReq {
	req := &rawViewReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	val := &viewReq{
		Query:  req.Query,
		Device: dserDevice(&errs, req.StrCoordinate),
	}
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return val
}

func (rs *resource) DserLocateReq(c *gin.Context) *viewReq {
	req := &rawLocateReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	val := &viewReq{Device: dserDevice(&errs, req.StrCoordinate)}
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return val
}

func (rs *resource) DserDistanceReq(c *gin.Context) *distanceReq {
	req := &rawDistanceReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	from, err1 := StrCoordinate{Lat: req.Lat1, Lng: req.Lon1}.ToModel()
	to, err2 := StrCoordinate{Lat: req.Lat2, Lng: req.Lon2}.ToModel()
	serdser.Assert(&errs, err1 == nil, "lat1/lon1", "Invalid lat1/lon1.")
	serdser.Assert(&errs, err2 == nil, "lat2/lon2", "Invalid lat2/lon2.")
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &distanceReq{From: from, To: to}
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Pricing struct {
	VehicleType string  `json:"vehicle_type"`
	HourlyRate  float64 `json:"hourly_rate"`
}

type Card struct {
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Latitude       string    `json:"latitude"`
	Longitude      string    `json:"longitude"`
	Mappable       bool      `json:"mappable"`
	DistanceKm     *float64  `json:"distance_km"`
	AverageRating  float64   `json:"average_rating"`
	SlotsAvailable int       `json:"slots_available"`
	Pricing        []Pricing `json:"pricing"`
	ImageURLs      []string  `json:"image_urls"`
}

type UserLocation struct {
	Coordinate
	Source model.LocationSource `json:"source"`
}

type Marker struct {
	OwnerID  string     `json:"owner_id"`
	Position Coordinate `json:"position"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Slots    int        `json:"slots"`
	Focused  bool       `json:"focused"`
}

type Tiles struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type Map struct {
	Phase                    string      `json:"phase"`
	Center                   *Coordinate `json:"center"`
	Zoom                     int         `json:"zoom"`
	Recenter                 bool        `json:"recenter"`
	Markers                  []Marker    `json:"markers"`
	UserMarker               *Coordinate `json:"user_marker"`
	Tiles                    Tiles       `json:"tiles"`
	ClosePopupOnOutsideClick bool        `json:"close_popup_on_outside_click"`
}

type View struct {
	Session      string        `json:"session"`
	Query        string        `json:"query"`
	Cards        []Card        `json:"cards"`
	Focused      *Card         `json:"focused"`
	UserLocation *UserLocation `json:"user_location"`
	Map          Map           `json:"map"`
	Error        string        `json:"error,omitempty"`
}

func serCoordinate(c model.Coordinate) Coordinate {
	return Coordinate{Lat: c.Lat, Lng: c.Lon}
}

func SerCard(card model.StationCard) Card {
	s := card.Station
	dto := Card{
		OwnerID:        s.OwnerID,
		Name:           s.Name,
		Address:        s.Address,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		Mappable:       card.Mappable,
		DistanceKm:     card.DistanceKm,
		AverageRating:  card.AverageRating,
		SlotsAvailable: card.Slots,
		Pricing:        make([]Pricing, 0, len(s.Pricing)),
		ImageURLs:      card.ImageURLs,
	}
	for _, p := range s.Pricing {
		dto.Pricing = append(dto.Pricing, Pricing{
			VehicleType: p.VehicleType,
			HourlyRate:  p.HourlyRate,
		})
	}
	return dto
}

func SerCards(cards []model.StationCard) []Card {
	dtos := make([]Card, 0, len(cards))
	for _, card := range cards {
		dtos = append(dtos, SerCard(card))
	}
	return dtos
}

func SerUserLocation(loc *model.UserLocation) *UserLocation {
	if loc == nil {
		return nil
	}
	return &UserLocation{
		Coordinate: serCoordinate(loc.Coordinate),
		Source:     loc.Source,
	}
}

func SerMap(mv model.MapView) Map {
	dto := Map{
		Phase:                    mv.Phase.String(),
		Zoom:                     mv.Zoom,
		Recenter:                 mv.Recenter,
		Markers:                  make([]Marker, 0, len(mv.Markers)),
		Tiles:                    Tiles{URL: mv.Tiles.URL, Attribution: mv.Tiles.Attribution},
		ClosePopupOnOutsideClick: mv.ClosePopupOnOutsideClick,
	}
	if mv.Phase == model.MapCentered {
		center := serCoordinate(mv.Center)
		dto.Center = &center
	}
	for _, m := range mv.Markers {
		dto.Markers = append(dto.Markers, Marker{
			OwnerID:  m.OwnerID,
			Position: serCoordinate(m.Coordinate),
			Name:     m.Name,
			Address:  m.Address,
			Slots:    m.Slots,
			Focused:  m.Focused,
		})
	}
	if mv.UserMarker != nil {
		um := serCoordinate(*mv.UserMarker)
		dto.UserMarker = &um
	}
	return dto
}

// SerView converts a use case view into its response body. A failed
// station fetch is reported by the error field with a user-facing
// message; its details are logged by the use case instead.
func SerView(session string, v parknowuc.View) View {
	dto := View{
		Session:      session,
		Query:        v.Query,
		Cards:        SerCards(v.Cards),
		UserLocation: SerUserLocation(v.User),
		Map:          SerMap(v.Map),
	}
	if v.Focused != nil {
		card := SerCard(*v.Focused)
		dto.Focused = &card
	}
	if v.FetchErr != nil {
		dto.Error = "Could not load parking stations. Please try again later."
	}
	return dto
}
