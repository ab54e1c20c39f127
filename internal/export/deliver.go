package export

import (
	"context"

	"github.com/dmitrijs2005/autobody/internal/filex"
)

// Deliverer hands the finished PDF to the user and returns where it went.
type Deliverer interface {
	Deliver(ctx context.Context, filename string, pdf []byte) (string, error)
}

// FileDeliverer writes the PDF into Dir, replacing any file of the same name.
type FileDeliverer struct {
	Dir string
}

func (d *FileDeliverer) Deliver(ctx context.Context, filename string, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return filex.WriteFileAtomic(d.Dir, filename, pdf)
}

// ResponseDeliverer keeps nothing: the caller already holds the PDF in
// Result and writes it to the response itself.
type ResponseDeliverer struct{}

func (ResponseDeliverer) Deliver(ctx context.Context, filename string, _ []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "response://" + filename, nil
}
