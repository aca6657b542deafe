package main

import (
	"fmt"
	"io"
	"os"

	"protomodel/internal/config"
	"protomodel/internal/model"
	"protomodel/internal/modelfile"
	"protomodel/internal/smt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	ModelFile string
	Complete  bool
)

var buildCommand = &cobra.Command{
	Use:   "build",
	Short: "build a model from a model description",
	Long:  ``,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return buildExec(cmd, os.Stdout)
	},
}

func init() {
	buildCommand.Flags().StringVarP(&ModelFile, "file", "f", "", "model description")
	buildCommand.Flags().BoolVar(&Complete, "complete", false, "evaluate with model completion before finalizing")
	_ = buildCommand.MarkFlagRequired("file")
}

func loadParams(cmd *cobra.Command) (config.Params, error) {
	v, err := config.NewViper(ConfigFile)
	if err != nil {
		return config.Params{}, err
	}
	if err := v.BindPFlag(config.KeyPartialModels, cmd.Flag("partial")); err != nil {
		return config.Params{}, errors.Wrap(err, "bind partial flag")
	}
	return config.Load(v), nil
}

func buildExec(cmd *cobra.Command, out io.Writer) error {
	params, err := loadParams(cmd)
	if err != nil {
		return err
	}
	f, err := modelfile.Load(ModelFile)
	if err != nil {
		return err
	}

	m := smt.NewManager()
	p := model.NewProtoModel(m, params)
	if err := p.RegisterTheoryFactories(); err != nil {
		return err
	}
	exprs, err := f.Build(p)
	if err != nil {
		return errors.Wrapf(err, "load %s", ModelFile)
	}
	log.Infof("loaded %s: %d constants, %d functions", ModelFile, p.NumConstants(), p.NumFunctions())

	if Complete {
		for _, e := range exprs {
			r, err := p.Eval(e, true)
			if err != nil {
				log.Warnf("eval %s: %v", e, err)
				continue
			}
			log.Infof("%s -> %s", e, r)
		}
	}

	p.CompletePartialFuncs()
	p.Cleanup()
	md := p.MkModel()
	log.Infof("model has %d constants, %d functions", md.NumConstants(), md.NumFunctions())

	_, _ = fmt.Fprint(out, md)
	for _, e := range exprs {
		r, err := md.Eval(e)
		if err != nil {
			_, _ = fmt.Fprintf(out, "%s -> %s ; %v\n", e, r, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s -> %s\n", e, r)
	}
	return nil
}
