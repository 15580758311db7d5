// Package palette подбирает цвета линий для участников на графиках.
package palette

import (
	"fmt"
	"math"
	"math/rand"
)

// RandomHex возвращает случайный насыщенный цвет в hex-формате,
// не входящий в existing. Оттенок выбирается по всему кругу, насыщенность
// и светлота ограничены, чтобы линии читались на светлом фоне.
func RandomHex(existing map[string]struct{}) string {
	for {
		h := float64(rand.Intn(360))
		s := float64(60+rand.Intn(31)) / 100.0
		l := float64(45+rand.Intn(16)) / 100.0
		hex := hslToHex(h, s, l)
		if _, ok := existing[hex]; !ok {
			return hex
		}
	}
}

func hslToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return fmt.Sprintf("#%02x%02x%02x",
		int((r+m)*255), int((g+m)*255), int((b+m)*255))
}
