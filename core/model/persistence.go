package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// SaveArtifact は成果物をgob形式でファイルに保存する
//
// パラメータ:
//   - artifact: 保存する成果物（エクスポートされたフィールドを持つ構造体）
//   - filename: 保存先のファイルパス
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
//
// 使用例:
//
//	targets := knn.TargetsArtifact{...}
//	err := model.SaveArtifact(&targets, "targets.gob")
func SaveArtifact(artifact interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := SaveArtifactToWriter(artifact, file); err != nil {
		return err
	}
	return file.Sync()
}

// LoadArtifact はgob形式のファイルから成果物を読み込む
//
// パラメータ:
//   - artifact: 読み込み先の構造体のポインタ
//   - filename: 読み込み元のファイルパス
//
// 戻り値:
//   - error: 読み込みに失敗した場合のエラー
func LoadArtifact(artifact interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return LoadArtifactFromReader(artifact, file)
}

// SaveArtifactToWriter は成果物をio.Writerに保存する
func SaveArtifactToWriter(artifact interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(artifact); err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return nil
}

// LoadArtifactFromReader はio.Readerから成果物を読み込む
func LoadArtifactFromReader(artifact interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(artifact); err != nil {
		return fmt.Errorf("failed to decode artifact: %w", err)
	}
	return nil
}
