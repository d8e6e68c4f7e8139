package catalog

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/giftlane/relevance/internal/domain/item"
)

// Hash field names for catalog items. "text" concatenates title and
// description and is the TEXT field BM25 scores against; "vector" holds
// the item embedding as packed little-endian float32.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCategory    = "category"
	fieldText        = "text"
	fieldVector      = "vector"
)

func itemToHash(it *item.Item) map[string]string {
	fields := map[string]string{
		fieldTitle:       it.Title(),
		fieldDescription: it.Description(),
		fieldPrice:       strconv.FormatFloat(it.Price(), 'f', -1, 64),
		fieldCategory:    it.Category(),
		fieldText:        it.Title() + " " + it.Description(),
	}
	if len(it.Vector()) > 0 {
		fields[fieldVector] = string(vectorToBytes(it.Vector()))
	}
	return fields
}

// ItemFromFields rebuilds an item from FT.SEARCH return fields or an HGETALL
// reply. The catalog package owns the hash schema, so the retrieval legs
// reuse this instead of re-parsing fields themselves.
func ItemFromFields(id string, fields map[string]string) (item.Item, error) {
	return hashToItem(id, fields)
}

// ReturnFields lists the hash fields the retrieval legs ask FT.SEARCH to return.
func ReturnFields() []string {
	return []string{fieldTitle, fieldDescription, fieldPrice, fieldCategory, fieldVector}
}

func hashToItem(id string, fields map[string]string) (item.Item, error) {
	price, err := strconv.ParseFloat(fields[fieldPrice], 64)
	if err != nil && fields[fieldPrice] != "" {
		return item.Item{}, fmt.Errorf("parse price for item %s: %w", id, err)
	}

	var vec []float32
	if raw, ok := fields[fieldVector]; ok && raw != "" {
		vec, err = bytesToVector([]byte(raw))
		if err != nil {
			return item.Item{}, fmt.Errorf("parse vector for item %s: %w", id, err)
		}
	}

	return item.New(
		id,
		fields[fieldTitle],
		fields[fieldDescription],
		price,
		fields[fieldCategory],
		vec,
	), nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
