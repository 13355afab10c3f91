package vehiclesrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
)

// DserVehicleID deserializes the id path parameter as an identity
// value. On failure, a 400 field-error map response is serialized and
// false is returned.
func (rs *resource) DserVehicleID(c *gin.Context) (int64, bool) {
	vid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "id", "Path param id is not an integer.")
		c.JSON(http.StatusBadRequest, errs)
		return 0, false
	}
	return vid, true
}

// DserVehicleReq deserializes the request body as a vehicle payload.
// Structural errors (malformed JSON, missing mandatory fields) are
// serialized as a 400 response and nil is returned; the textual date
// and price fields stay unparsed here since their conversion belongs
// to the use case layer.
func (rs *resource) DserVehicleReq(c *gin.Context) *vehicleuc.VehicleRequest {
	req := &vehicleuc.VehicleRequest{}
	if ok := serdser.Bind(c, req); !ok {
		return nil
	}
	return req
}
