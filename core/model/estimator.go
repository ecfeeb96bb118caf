package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Fitter
	Predictor
}

// Persistable は成果物ファイルとして保存・復元できるモデルのインターフェース。
// インデックスとターゲットの2ファイルは常にペアで扱われます。
type Persistable interface {
	// Save はモデルをペアとなる2つの成果物ファイルに保存する
	Save(indexPath, targetsPath string) error
	// Load はペアとなる2つの成果物ファイルからモデルを復元する
	Load(indexPath, targetsPath string) error
}
