package commands

import (
	"fmt"
	"io"
	"math/rand"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/veedubyou/separation-be/src/training/batchfile"
	"github.com/veedubyou/separation-be/src/training/features"
)

const (
	LMFFeatures  = "lmf"
	STFTFeatures = "stft"
)

var ErrUnknownFeatures = errors.New("unknown feature type")

type Options struct {
	Dir       string
	Out       string
	Features  string
	BatchSize int
	Batches   int
	Seed      int64

	Mixer features.MixerOptions
	LMF   features.LMFOptions
	STFT  features.STFTOptions
}

func DefaultOptions() Options {
	return Options{
		Out:       "batches",
		Features:  LMFFeatures,
		BatchSize: 256,
		Batches:   1,
		Seed:      1,
		Mixer:     features.DefaultMixerOptions(),
		LMF:       features.DefaultLMFOptions(),
		STFT:      features.DefaultSTFTOptions(),
	}
}

func NewRootCommand() *cobra.Command {
	options := DefaultOptions()

	cmd := &cobra.Command{
		Use:   "featgen",
		Short: "Generate separation training batches from source WAVs",
		Long: `Mixes random slices of the source WAVs in --dir, computes log mel
filterbank (lmf) or STFT magnitude (stft) features for the mixture and every
source, and writes --batches files of --batch-size examples to --out.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Generate(options, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&options.Dir, "dir", options.Dir, "directory of source WAVs")
	flags.StringVar(&options.Out, "out", options.Out, "directory to write batch files to")
	flags.StringVar(&options.Features, "features", options.Features, "feature type: lmf or stft")
	flags.IntVar(&options.BatchSize, "batch-size", options.BatchSize, "examples per batch")
	flags.IntVar(&options.Batches, "batches", options.Batches, "number of batch files to write")
	flags.Int64Var(&options.Seed, "seed", options.Seed, "random seed for file, slice and weight selection")

	flags.BoolVar(&options.Mixer.MixRandom, "mix-random", options.Mixer.MixRandom, "weight sources uniformly in [0, 1) instead of 1")
	flags.IntVar(&options.Mixer.NumToMix, "num-to-mix", options.Mixer.NumToMix, "sources per mixture")
	flags.IntVar(&options.Mixer.SigLength, "sig-length", options.Mixer.SigLength, "samples per source slice")
	flags.StringVar(&options.Mixer.Mask, "mask", options.Mixer.Mask, "substring that source file names must contain")

	flags.Float64Var(&options.LMF.Fs, "lmf-fs", options.LMF.Fs, "sample rate used to scale lmf window lengths")
	flags.Float64Var(&options.LMF.STFTLen, "lmf-len", options.LMF.STFTLen, "lmf frame length")
	flags.Float64Var(&options.LMF.STFTStep, "lmf-step", options.LMF.STFTStep, "lmf frame step")
	flags.IntVar(&options.LMF.NFFT, "nfft", options.LMF.NFFT, "lmf FFT size")
	flags.IntVar(&options.LMF.NFilters, "nfilters", options.LMF.NFilters, "lmf mel filters")
	flags.BoolVar(&options.LMF.UseDiffs, "lmf-diffs", options.LMF.UseDiffs, "append time differences to lmf features")

	flags.Float64Var(&options.STFT.Fs, "stft-fs", options.STFT.Fs, "sample rate used to scale stft window lengths")
	flags.Float64Var(&options.STFT.STFTLen, "stft-len", options.STFT.STFTLen, "stft frame length")
	flags.Float64Var(&options.STFT.STFTStep, "stft-step", options.STFT.STFTStep, "stft frame step")
	flags.BoolVar(&options.STFT.UseDiffs, "stft-diffs", options.STFT.UseDiffs, "append time differences to stft features")

	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func featureIterator(options Options, wavs features.MixtureSource) (features.FeatureIterator, error) {
	switch options.Features {
	case LMFFeatures:
		return features.NewLMFIterator(wavs, options.LMF), nil
	case STFTFeatures:
		return features.NewSTFTIterator(wavs, options.STFT), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFeatures, "%q", options.Features)
	}
}

// Generate writes options.Batches batch files and reports each on out.
func Generate(options Options, out io.Writer) error {
	if options.Batches <= 0 {
		return errors.Newf("batches %d must be positive", options.Batches)
	}

	rng := rand.New(rand.NewSource(options.Seed))

	mixer, err := features.NewWavMixer(options.Dir, options.Mixer, rng)
	if err != nil {
		return err
	}

	iterator, err := featureIterator(options, features.NewWavIterator(mixer))
	if err != nil {
		return err
	}

	batcher, err := features.NewBatcher[features.Tensor3, features.Tensor2](iterator, options.BatchSize)
	if err != nil {
		return err
	}

	logger := log.WithFields(log.Fields{
		"dir":        options.Dir,
		"features":   options.Features,
		"batch_size": options.BatchSize,
		"candidates": len(mixer.Candidates()),
	})
	logger.Info("Generating batches")

	for i := 0; i < options.Batches; i++ {
		batch, err := batcher.Next()
		if err != nil {
			return errors.Wrapf(err, "failed to build batch %d", i)
		}

		path := filepath.Join(options.Out, batchfile.Name(i))
		if err := batchfile.Write(path, batchfile.FromBatch(batch)); err != nil {
			return err
		}

		logger.WithField("path", path).Debug("Wrote batch")
		fmt.Fprintln(out, path)
	}

	return nil
}
