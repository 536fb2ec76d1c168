package datastructure

// KVNode routable node as stored in the h3 indexed key-value db.
type KVNode struct {
	ID  int32
	Lat float64
	Lon float64
}

func NewKVNode(id int32, lat, lon float64) KVNode {
	return KVNode{
		ID:  id,
		Lat: lat,
		Lon: lon,
	}
}
