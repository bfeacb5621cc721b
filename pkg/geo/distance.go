package geo

import (
	"math"
	"strconv"
)

const earthRadiusMiles = 3958.7613

// Point 十进制经纬度
type Point struct {
	Lat  float64
	Long float64
}

// ParsePoint 解析字符串形式的坐标（商家表里按字符串存储）
func ParsePoint(lat, long string) (Point, bool) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Point{}, false
	}
	longF, err := strconv.ParseFloat(long, 64)
	if err != nil {
		return Point{}, false
	}
	return Point{Lat: latF, Long: longF}, true
}

// GreatCircleMiles 两点间大圆距离（英里），haversine 公式
func GreatCircleMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLong := (b.Long - a.Long) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLong/2)*math.Sin(dLong/2)

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
