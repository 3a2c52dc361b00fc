package keypath_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reoring/keypath"
	"github.com/reoring/keypath/codec"
)

type address struct {
	City string
	Zip  *string
}

func (a *address) DecodeDocument(d *keypath.Document) bool {
	city, ok := keypath.Decode(d, "city", keypath.String)
	if !ok {
		return false
	}
	a.City = city
	if zip, ok := keypath.Decode(d, "postal.zip", keypath.String); ok {
		a.Zip = &zip
	}
	return true
}

func (a *address) EncodeDocument() (*keypath.Document, bool) {
	return keypath.Merge(
		keypath.EncodeValue("city", a.City, keypath.String),
		keypath.Encode("postal.zip", a.Zip, keypath.String),
	), true
}

var birthdayFormat = codec.Layout("2006-01-02", nil)

type account struct {
	ID       uuid.UUID
	Name     string
	Age      *int
	Score    float64
	Tags     []string
	Home     *url.URL
	Joined   time.Time
	Birthday *time.Time
	Balance  decimal.Decimal
	Favorite color
	Address  *address
	Previous []address
	Contacts map[string]address
	Groups   map[string][]address
}

func (a *account) DecodeDocument(d *keypath.Document) bool {
	id, ok := keypath.DecodeUUID(d, "id")
	if !ok {
		return false
	}
	name, ok := keypath.Decode(d, "profile.name", keypath.String)
	if !ok {
		return false
	}
	a.ID, a.Name = id, name
	if age, ok := keypath.Decode(d, "profile.age", keypath.Int); ok {
		a.Age = &age
	}
	a.Score, _ = keypath.Decode(d, "profile.score", keypath.Float64)
	a.Tags, _ = keypath.DecodeSlice(d, "profile.tags", keypath.String)
	a.Home, _ = keypath.DecodeURL(d, "links.home")
	a.Joined, _ = keypath.DecodeISO8601Date(d, "dates.joined")
	if b, ok := keypath.DecodeDate(d, "dates.birthday", birthdayFormat); ok {
		a.Birthday = &b
	}
	a.Balance, _ = keypath.DecodeDecimal(d, "balance")
	a.Favorite, _ = keypath.DecodeEnum(d, "favorite", colorCodec)
	if addr, ok := keypath.DecodeObject[address](d, "address"); ok {
		a.Address = &addr
	}
	a.Previous, _ = keypath.DecodeObjectSlice[address](d, "previous")
	a.Contacts, _ = keypath.DecodeObjectMap[address](d, "contacts")
	a.Groups, _ = keypath.DecodeObjectSliceMap[address](d, "groups")
	return true
}

func (a *account) EncodeDocument() (*keypath.Document, bool) {
	return keypath.Merge(
		keypath.EncodeUUID("id", &a.ID),
		keypath.EncodeValue("profile.name", a.Name, keypath.String),
		keypath.Encode("profile.age", a.Age, keypath.Int),
		keypath.EncodeValue("profile.score", a.Score, keypath.Float64),
		keypath.EncodeSlice("profile.tags", a.Tags, keypath.String),
		keypath.EncodeURL("links.home", a.Home),
		keypath.EncodeISO8601Date("dates.joined", &a.Joined),
		keypath.EncodeDate("dates.birthday", a.Birthday, birthdayFormat),
		keypath.EncodeDecimal("balance", &a.Balance),
		keypath.EncodeEnum("favorite", &a.Favorite, colorCodec),
		keypath.EncodeObject("address", a.Address),
		keypath.EncodeObjectSlice("previous", a.Previous),
		keypath.EncodeObjectMap("contacts", a.Contacts),
		keypath.EncodeObjectSliceMap("groups", a.Groups),
	), true
}

func fullAccount(t *testing.T) account {
	t.Helper()
	age := 31
	zip := "100-0001"
	bday := time.Date(1993, 7, 14, 0, 0, 0, 0, time.UTC)
	home, err := url.Parse("https://example.com/~taro")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	return account{
		ID:       uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Name:     "Taro",
		Age:      &age,
		Score:    98.5,
		Tags:     []string{"admin", "ops"},
		Home:     home,
		Joined:   time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC),
		Birthday: &bday,
		Balance:  decimal.RequireFromString("1024.75"),
		Favorite: green,
		Address:  &address{City: "Tokyo", Zip: &zip},
		Previous: []address{{City: "Osaka"}, {City: "Nagoya"}},
		Contacts: map[string]address{"home": {City: "Kyoto"}},
		Groups:   map[string][]address{"west": {{City: "Kobe"}}},
	}
}

func TestObject_RoundTrip(t *testing.T) {
	in := fullAccount(t)
	d, ok := keypath.EncodeFrom(in)
	if !ok {
		t.Fatalf("encode failed")
	}
	out, ok := keypath.DecodeInto[account](d)
	if !ok {
		t.Fatalf("decode failed for %s", d)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_RoundTripThroughJSON(t *testing.T) {
	in := fullAccount(t)
	d, _ := keypath.EncodeFrom(in)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, ok := keypath.DecodeInto[account](mustParse(t, string(b)))
	if !ok {
		t.Fatalf("decode failed for %s", b)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_OptionalFieldsOmitted(t *testing.T) {
	in := account{ID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), Name: "Hanako"}
	d, _ := keypath.EncodeFrom(in)
	for _, path := range []string{"profile.age", "profile.tags", "links", "dates.birthday", "address", "previous", "contacts", "groups"} {
		if _, ok := keypath.Lookup(d, path); ok {
			t.Fatalf("expected %q to be absent in %s", path, d)
		}
	}
	profile, ok := keypath.Decode(d, "profile", keypath.Doc)
	if !ok || !profile.Has("name") {
		t.Fatalf("expected profile.name next to the omitted fields")
	}
}

func TestObject_RequiredFieldMissing(t *testing.T) {
	d := mustParse(t, `{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","profile":{"age":3}}`)
	if _, ok := keypath.DecodeInto[account](d); ok {
		t.Fatalf("missing profile.name must fail the record")
	}
}

func TestObjectSlice_PartialRecovery(t *testing.T) {
	d := mustParse(t, `{"items":[{"city":"A"},{"town":"B"},{"city":"C"},1]}`)
	got, ok := keypath.DecodeObjectSlice[address](d, "items")
	if !ok {
		t.Fatalf("expected partial recovery")
	}
	if diff := cmp.Diff([]address{{City: "A"}, {City: "C"}}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if _, ok := keypath.DecodeObjectSlice[address](d, "items.0"); ok {
		t.Fatalf("non-array must not decode")
	}
}

func TestObjectMap_PartialRecovery(t *testing.T) {
	d := mustParse(t, `{"m":{"a":{"city":"A"},"b":{"zip":"1"},"c":"x"},"g":{"a":[{"city":"A"},{}],"b":{"city":"B"}}}`)
	m, ok := keypath.DecodeObjectMap[address](d, "m")
	if !ok {
		t.Fatalf("expected map")
	}
	if diff := cmp.Diff(map[string]address{"a": {City: "A"}}, m); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
	g, ok := keypath.DecodeObjectSliceMap[address](d, "g")
	if !ok {
		t.Fatalf("expected map of slices")
	}
	if diff := cmp.Diff(map[string][]address{"a": {{City: "A"}}}, g); diff != "" {
		t.Fatalf("map of slices mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_RecordThroughCodecFor(t *testing.T) {
	d := mustParse(t, `{"a":{"city":"X"},"list":[{"city":"Y"},{"nope":1}]}`)
	a, ok := keypath.Get[address](d, "a")
	if !ok || a.City != "X" {
		t.Fatalf("Get record: %+v %v", a, ok)
	}
	list, ok := keypath.GetSlice[address](d, "list")
	if !ok || len(list) != 1 {
		t.Fatalf("GetSlice of records must filter: %+v %v", list, ok)
	}
	frag := keypath.Put("a", &a)
	if diff := cmp.Diff(mustParse(t, `{"a":{"city":"X"}}`), frag); diff != "" {
		t.Fatalf("Put record mismatch (-want +got):\n%s", diff)
	}
}
