// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"
	"os"

	"github.com/tanki-rpc/tanki-rich-presence/internal/cli"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
