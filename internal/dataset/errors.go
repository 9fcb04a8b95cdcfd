// 包 dataset：三级行政区数据集的加载（HTTP / 文件 / S3 / SQL）、Redis 缓存与进程内快照
package dataset

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable：数据集无法获取或解析；对界面而言是终止性错误
var ErrDataUnavailable = errors.New("dataset unavailable")

// UnavailableError 携带来源与底层原因，errors.Is(err, ErrDataUnavailable) 成立
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("dataset unavailable (%s): %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

func unavailable(source string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Source: source, Err: err}
}
