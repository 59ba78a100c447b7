package novarecord_test

import (
	"fmt"

	"github.com/tuannm99/novarecord"
)

func Example() {
	s, err := novarecord.ParseSchema([]byte(`
fields:
  - {id: 1, name: id, required: false, type: long}
  - {id: 2, name: blob, required: false, type: binary}
`))
	if err != nil {
		panic(err)
	}

	r, _ := novarecord.Create(s)
	_ = r.SetField("id", int64(10))
	_ = r.SetField("blob", []byte("abc"))

	_, err = r.Get(0, novarecord.KindString)
	fmt.Println(err)

	id, _ := novarecord.As[int64](r, 0)
	fmt.Println(id)

	cp := r.Copy()
	blob, _ := cp.GetField("blob")
	blob.([]byte)[0] = 'x'
	fmt.Println(r, cp)
	// Output:
	// not an instance of string: 10
	// 10
	// Record(10, 0x616263) Record(10, 0x786263)
}
